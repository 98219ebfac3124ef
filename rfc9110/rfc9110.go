// Package rfc9110 implements the parts of RFC 9110 (HTTP Semantics) that an origin
// server needs for conditional requests and range requests.
//
// The functions are stateless; the caller supplies the validator or the
// representation length of the resource it is answering for.
package rfc9110

// §  RFC 9110 HTTP Semantics
// §
// §  The Hypertext Transfer Protocol (HTTP) is a stateless application-
// §  level protocol for distributed, collaborative, hypertext information
// §  systems.  This document describes the overall architecture of HTTP,
// §  establishes common terminology, and defines aspects of the protocol
// §  that are shared by all versions.

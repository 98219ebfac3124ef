package assets

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	_ "github.com/glebarez/go-sqlite"
)

// Logical names of the bundled assets.
const (
	Home = "home"
	HTML = "html"
	XML  = "xml"
	JPEG = "jpeg"
	PNG  = "png"
)

// ErrNotFound is returned when no asset exists for a name.
var ErrNotFound = errors.New("asset not found")

//go:embed static
var static embed.FS

var files = map[string]string{
	Home: "static/index.html",
	HTML: "static/text.html",
	XML:  "static/text.xml",
	JPEG: "static/image.jpg",
	PNG:  "static/image.png",
}

// Names returns the logical names of all bundled assets.
func Names() []string {
	return []string{Home, HTML, XML, JPEG, PNG}
}

// AssetProvider supplies named byte blobs to the static content routes.
//
// Implementations must be safe for concurrent readers!
type AssetProvider interface {
	// Get returns the content stored under the given logical name.
	// It returns ErrNotFound if there is no such asset.
	Get(name string) ([]byte, error)
}

// MemAssets serves the assets embedded in the binary.
type MemAssets struct{}

// NewMemAssets returns the provider for the embedded assets.
func NewMemAssets() MemAssets {
	return MemAssets{}
}

func (MemAssets) Get(name string) ([]byte, error) {
	file, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return static.ReadFile(file)
}

// SQLiteAssets serves assets from an SQLite table.
// Missing bundled assets are seeded into the table when it is opened,
// so a database only needs to contain the overrides.
type SQLiteAssets struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// NewSQLiteAssets opens the given file as the asset db.
// If file name is empty, a new in-memory db is opened.
func NewSQLiteAssets(filename string) (SQLiteAssets, error) {
	if filename == "" {
		filename = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return SQLiteAssets{}, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS assets (
		name TEXT PRIMARY KEY,
		content BLOB
	)`)
	if err != nil {
		return SQLiteAssets{}, fmt.Errorf("could not create assets table: %w", err)
	}
	s := SQLiteAssets{
		db:         db,
		writeMutex: &sync.Mutex{},
	}
	mem := NewMemAssets()
	for _, name := range Names() {
		content, err := mem.Get(name)
		if err != nil {
			return s, err
		}
		if _, err := db.Exec("INSERT OR IGNORE INTO assets (name, content) VALUES (?, ?)", name, content); err != nil {
			return s, fmt.Errorf("could not seed asset %s: %w", name, err)
		}
	}
	return s, nil
}

func (s SQLiteAssets) Get(name string) ([]byte, error) {
	var content []byte
	err := s.db.QueryRow("SELECT content FROM assets WHERE name = ?", name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// Put stores content under the given name, replacing any existing asset.
func (s SQLiteAssets) Put(name string, content []byte) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err := s.db.Exec("INSERT OR REPLACE INTO assets (name, content) VALUES (?, ?)", name, content)
	return err
}

// Close closes the underlying db.
func (s SQLiteAssets) Close() error {
	return s.db.Close()
}

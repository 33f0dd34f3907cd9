package viewer

import (
	"errors"
	"fmt"
	"log"

	bolt "github.com/coreos/bbolt"
	"github.com/google/uuid"
)

var viewersBucket = []byte("viewers")

// ViewerData is what we remember about someone browsing the grid. It never
// holds tile data.
type ViewerData struct {
	ID         string          `json:""`
	Name       string          `json:""`
	X          int             `json:""`
	Y          int             `json:""`
	PublicKeys map[string]bool `json:""`
}

// Location returns the camera position
func (v *ViewerData) Location() Point {
	return Point{X: v.X, Y: v.Y}
}

// SSHKeysEmpty is true until the viewer's first login stores a key.
func (v *ViewerData) SSHKeysEmpty() bool {
	return len(v.PublicKeys) == 0
}

// ValidateSSHKey checks a key against the stored ones
func (v *ViewerData) ValidateSSHKey(sshKey string) bool {
	val, ok := v.PublicKeys[sshKey]
	return val && ok
}

// AddSSHKey remembers a key for this viewer
func (v *ViewerData) AddSSHKey(sshKey string) {
	if v.PublicKeys == nil {
		v.PublicKeys = make(map[string]bool)
	}
	v.PublicKeys[sshKey] = true
}

// ViewerStore keeps viewer records in a bolt database.
type ViewerStore struct {
	filename string
	database *bolt.DB
}

// OpenViewerStore opens or creates the viewer database.
func OpenViewerStore(filename string) (*ViewerStore, error) {
	log.Printf("Loading viewer database %s", filename)
	db, err := bolt.Open(filename, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(viewersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ViewerStore{filename: filename, database: db}, nil
}

// Viewer loads the named viewer, creating a record at spawn if none exists.
func (s *ViewerStore) Viewer(name string, spawn Point) (*ViewerData, error) {
	if name == "" {
		return nil, errors.New("viewer name is empty")
	}

	var record []byte
	err := s.database.View(func(tx *bolt.Tx) error {
		if found := tx.Bucket(viewersBucket).Get([]byte(name)); found != nil {
			record = append([]byte(nil), found...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if record == nil {
		log.Printf("Viewer %s does not exist, creating anew...", name)
		viewer := &ViewerData{
			ID:         uuid.New().String(),
			Name:       name,
			X:          spawn.X,
			Y:          spawn.Y,
			PublicKeys: make(map[string]bool)}
		return viewer, s.Save(viewer)
	}

	var viewer ViewerData
	if err := MSGUnpack(record, &viewer); err != nil {
		return nil, fmt.Errorf("decoding viewer %s: %w", name, err)
	}
	if viewer.PublicKeys == nil {
		viewer.PublicKeys = make(map[string]bool)
	}

	return &viewer, nil
}

// Save writes the viewer record.
func (s *ViewerStore) Save(viewer *ViewerData) error {
	record, err := MSGPack(viewer)
	if err != nil {
		return fmt.Errorf("encoding viewer %s: %w", viewer.Name, err)
	}

	return s.database.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(viewersBucket).Put([]byte(viewer.Name), record)
	})
}

// Close releases the database file
func (s *ViewerStore) Close() error {
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

package lib

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/boltdb/bolt"
)

const (
	libraryDB    = "easyeda.db"
	libraryIndex = "easyeda.index"
)

var partsBucket = []byte("parts")

/*
	FetchedPart records a component written into a library
*/
type FetchedPart struct {
	LCSC             string
	Title            string
	Package          string
	Manufacturer     string
	ManufacturerPart string
	Price            string
	FootprintLib     string
	Footprint        string
	Symbol           string
	Models           []string
	FetchedAt        time.Time
}

/*
	Library is the index of fetched parts kept next to the footprint
	libraries: bolt holds the records, bleve the full text index
*/
type Library struct {
	root  string
	db    *bolt.DB
	index bleve.Index
}

/*
	Create or open library from root
*/
func NewLibrary(root string) (*Library, error) {
	db, err := bolt.Open(filepath.Join(root, libraryDB), 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open parts database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(partsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	var index bleve.Index
	ipath := filepath.Join(root, libraryIndex)
	if Exists(ipath) {
		index, err = bleve.Open(ipath)
	} else {
		index, err = bleve.New(ipath, bleve.NewIndexMapping())
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open parts index: %w", err)
	}

	return &Library{
		root:  root,
		db:    db,
		index: index,
	}, nil
}

/*
	OpenLibrary opens an existing library and fails if there is none
*/
func OpenLibrary(root string) (*Library, error) {
	if !Exists(filepath.Join(root, libraryDB)) {
		return nil, fmt.Errorf("%w: no parts database in %s", ErrNotFound, root)
	}

	return NewLibrary(root)
}

func (l *Library) Close() error {
	ierr := l.index.Close()
	if err := l.db.Close(); err != nil {
		return err
	}

	return ierr
}

func (l *Library) Record(part *FetchedPart) error {
	bytes, err := Marshal(part)
	if err != nil {
		return err
	}

	if err := l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(partsBucket).Put([]byte(part.LCSC), bytes)
	}); err != nil {
		return fmt.Errorf("failed to record %s: %w", part.LCSC, err)
	}

	return l.index.Index(part.LCSC, part)
}

func (l *Library) Get(code string) (*FetchedPart, error) {
	part := &FetchedPart{}
	err := l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(partsBucket).Get([]byte(code))
		if data == nil {
			return fmt.Errorf("%w: %s is not in the library", ErrNotFound, code)
		}

		return Unmarshal(data, part)
	})
	if err != nil {
		return nil, err
	}

	return part, nil
}

/*
	All returns every recorded part ordered by LCSC code
*/
func (l *Library) All() ([]*FetchedPart, error) {
	parts := []*FetchedPart{}
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(partsBucket).ForEach(func(k, v []byte) error {
			part := &FetchedPart{}
			if err := Unmarshal(v, part); err != nil {
				return err
			}
			parts = append(parts, part)

			return nil
		})
	})

	return parts, err
}

/*
	Find library parts, given a search string
*/
func (l *Library) Find(text string) ([]*FetchedPart, error) {
	request := bleve.NewSearchRequest(bleve.NewMatchQuery(text))
	request.Size = 100

	result, err := l.index.Search(request)
	if err != nil {
		return nil, err
	}

	parts := []*FetchedPart{}
	for _, hit := range result.Hits {
		part, err := l.Get(hit.ID)
		if err != nil {
			continue
		}
		parts = append(parts, part)
	}

	return parts, nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"

	goalter "github.com/reoring/goalter"
	"github.com/reoring/goalter/store/memstore"
	"github.com/reoring/goalter/store/mongostore"
)

// defaultProjectFile is picked up from the working directory when -project is
// not given.
const defaultProjectFile = "goalter.yaml"

// Project is the goalter.yaml layout:
//
//	alters: alters.yaml
//	language: fr
//	stores:
//	  users:
//	    fixture: testdata/users.json
//	  places:
//	    mongo:
//	      uri: mongodb://localhost:27017
//	      database: app
//	      collection: places
//	      projection: [name, city]
type Project struct {
	Alters   string                 `yaml:"alters"`
	Language string                 `yaml:"language"`
	Stores   map[string]StoreConfig `yaml:"stores"`

	dir string
}

type StoreConfig struct {
	Fixture string       `yaml:"fixture"`
	Mongo   *MongoConfig `yaml:"mongo"`
}

type MongoConfig struct {
	URI        string        `yaml:"uri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	Projection []string      `yaml:"projection"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LoadProject reads a project file; unknown keys are rejected.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Project
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("project %s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	for name, sc := range p.Stores {
		if (sc.Fixture == "") == (sc.Mongo == nil) {
			return nil, fmt.Errorf("project %s: store %q needs exactly one of fixture or mongo", path, name)
		}
		if m := sc.Mongo; m != nil && (m.URI == "" || m.Database == "" || m.Collection == "") {
			return nil, fmt.Errorf("project %s: store %q: mongo needs uri, database and collection", path, name)
		}
	}
	return &p, nil
}

// path resolves a project-relative path.
func (p *Project) path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) || p.dir == "" {
		return rel
	}
	return filepath.Join(p.dir, rel)
}

// Services builds the container the engine resolves store names through.
// Fixture stores load eagerly; mongo stores connect on first use. The returned
// close func disconnects every client that was opened.
func (p *Project) Services() (*goalter.Services, func(context.Context) error, error) {
	svc := goalter.NewServices()
	var (
		mu      sync.Mutex
		clients []*mongo.Client
	)
	for name, sc := range p.Stores {
		if sc.Fixture != "" {
			docs, err := loadFixture(p.path(sc.Fixture))
			if err != nil {
				return nil, nil, fmt.Errorf("store %q: %w", name, err)
			}
			svc.Set(name, memstore.New(docs...))
			continue
		}
		mc := *sc.Mongo
		svc.SetFactory(name, func() (any, error) {
			timeout := mc.Timeout
			if timeout <= 0 {
				timeout = 10 * time.Second
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			client, err := mongo.Connect(ctx, options.Client().ApplyURI(mc.URI))
			if err != nil {
				return nil, err
			}
			mu.Lock()
			clients = append(clients, client)
			mu.Unlock()
			coll := client.Database(mc.Database).Collection(mc.Collection)
			var opts []mongostore.Option
			if len(mc.Projection) > 0 {
				opts = append(opts, mongostore.WithProjection(mc.Projection...))
			}
			return mongostore.New(coll, opts...), nil
		})
	}
	closeFn := func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		var errs []error
		for _, c := range clients {
			errs = append(errs, c.Disconnect(ctx))
		}
		return errors.Join(errs...)
	}
	return svc, closeFn, nil
}

// loadFixture reads a list of documents from a .json or YAML file.
func loadFixture(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	docs := make([]map[string]any, 0, len(raw))
	for i, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("fixture %s: entry %d is %T, want a mapping", path, i, e)
		}
		docs = append(docs, m)
	}
	return docs, nil
}

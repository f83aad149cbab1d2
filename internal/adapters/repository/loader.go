package repository

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/metaforge/internal/domain/catalog"
)

// document is the wire shape of the curated build database.
type document struct {
	Builds []Entry `koanf:"builds"`
}

// Load reads a YAML curated build database from path and resolves it
// against cat.
func Load(_ context.Context, cat *catalog.Catalog, path string, opts ...Option) (*InMemoryStore, error) {
	const op = "repository.load"

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrLoad, err)
	}

	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrLoad, err)
	}

	return NewInMemoryStore(cat, doc.Builds, opts...)
}

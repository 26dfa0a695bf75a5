package cmd

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/tabc/internal/catalog"
	"github.com/oakwood-commons/tabc/internal/config"
	"github.com/oakwood-commons/tabc/internal/demo"
	"github.com/oakwood-commons/tabc/internal/exec"
	"github.com/oakwood-commons/tabc/internal/harvest"
	"github.com/oakwood-commons/tabc/pkg/loader"
	"github.com/oakwood-commons/tabc/pkg/logger"
)

// session is the catalog, live values and executor one invocation works on.
type session struct {
	path      string
	cat       *catalog.Catalog
	harvester *harvest.Harvester
	exec      exec.Executor
}

func newSession(cfg config.Config, log logr.Logger) (*session, error) {
	s := &session{path: cfg.Catalog.Path, cat: catalog.New()}
	if s.path != "" {
		cat, err := loader.LoadCatalog(s.path)
		if err != nil {
			return nil, err
		}
		s.cat = cat
	}
	s.harvester = harvest.New(s.cat, harvest.WithLogger(log))
	if s.path == "" {
		if err := demo.Seed(s.harvester); err != nil {
			return nil, fmt.Errorf("seed demo graph: %w", err)
		}
	}
	ex, err := exec.New(cfg.Console.Backend, s.harvester, exec.WithLogger(log))
	if err != nil {
		return nil, err
	}
	s.exec = ex
	log.V(1).Info("session ready", logger.CatalogKey, sourceName(s.path), logger.BackendKey, cfg.Console.Backend, "symbols", s.cat.Len())
	return s, nil
}

func (s *session) reload() (*catalog.Catalog, error) {
	return loader.LoadCatalog(s.path)
}

func sourceName(path string) string {
	if path == "" {
		return "demo"
	}
	return path
}

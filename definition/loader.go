package definition

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/logger"
	"github.com/kbukum/collection/observability"
)

// Loader loads definitions by name.
type Loader interface {
	Load(ctx context.Context, name string) (*Definition, error)
}

// FileLoader loads definitions from YAML files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches the given directories for
// {name}.yaml and {name}.yml, in that order.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

// Load returns the first matching definition. A missing file is NOT_FOUND;
// a file that exists but does not parse is INVALID_DEFINITION.
func (l *FileLoader) Load(ctx context.Context, name string) (*Definition, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanDefinitionLoad)
	defer span.End()
	span.SetAttributes(attribute.String(observability.AttrDefinition, name))

	d, path, err := l.load(name)
	log := logger.Get(logger.ComponentDefinition).WithContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug("definition not loaded", logger.ErrorFields("load", err))
		return nil, err
	}
	log.Debug("definition loaded", logger.Fields(
		logger.FieldDefinition, d.Name,
		"path", path,
		logger.FieldCount, len(d.Steps),
	))
	return d, nil
}

func (l *FileLoader) load(name string) (*Definition, string, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			data, err := os.ReadFile(path)
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, path, errors.InvalidDefinition(name, "unreadable file").WithCause(err)
			}
			d, err := Parse(name, data)
			return d, path, err
		}
	}
	return nil, "", errors.NotFound("definition", name).WithDetail("dirs", l.dirs)
}

// MapLoader serves definitions held in memory.
type MapLoader map[string]*Definition

// Load returns the definition stored under name.
func (m MapLoader) Load(_ context.Context, name string) (*Definition, error) {
	if d, ok := m[name]; ok {
		return d, nil
	}
	return nil, errors.NotFound("definition", name)
}

package rewrite

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/loom/errors"
)

// DefaultMarker is the import path of the package whose Suspend calls mark
// suspension points.
const DefaultMarker = "github.com/wippyai/loom"

// Directive marks a function declaration as a procedure to transform.
const Directive = "//loom:proc"

// Config configures a transformation run.
type Config struct {
	// Logger defaults to a nop logger.
	Logger *zap.Logger

	// Marker is the import path of the suspension-marker package.
	// Defaults to DefaultMarker.
	Marker string

	// Namespace overrides the identity namespace. Defaults to the file's
	// package name, giving identities of the form "<package>::<name>".
	Namespace string
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Marker == "" {
		c.Marker = DefaultMarker
	}
	return c
}

// File transforms every marked procedure in src and returns the generated
// sibling file contents. filename is used for positions in error messages.
// If the file contains no marked procedures, File returns (nil, nil).
//
// Validation failures are accumulated: every rejected procedure in the file
// is reported, and no output is produced if any procedure is rejected.
func File(filename string, src []byte, cfg Config) ([]byte, error) {
	cfg = cfg.withDefaults()

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransform, errors.KindInvalidInput, err, "parse source")
	}

	procs, perr := collectProcs(fset, f)
	if perr != nil {
		return nil, perr
	}
	if len(procs) == 0 {
		cfg.Logger.Debug("no marked procedures", zap.String("file", filename))
		return nil, nil
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = f.Name.Name
	}
	marker := markerName(f, cfg.Marker)

	var errs error
	transformed := make([]*procedure, 0, len(procs))
	for _, p := range procs {
		if err := p.transform(fset, marker, namespace); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		cfg.Logger.Debug("procedure transformed",
			zap.String("id", p.identity),
			zap.Int("suspensions", p.suspensions))
		transformed = append(transformed, p)
	}
	if errs != nil {
		return nil, errs
	}

	return emit(fset, f, cfg.Marker, transformed)
}

// Path transforms the file at path and returns the generated contents along
// with the conventional output path.
func Path(path string, cfg Config) (out []byte, outPath string, err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(errors.PhaseTransform, errors.KindInvalidInput, err, "read source")
	}
	out, err = File(path, src, cfg)
	if err != nil {
		return nil, "", err
	}
	return out, OutputPath(path), nil
}

// OutputPath returns the conventional generated-file name for a source path:
// "anim.go" becomes "anim_loom.go".
func OutputPath(path string) string {
	base := strings.TrimSuffix(path, ".go")
	return base + "_loom.go"
}

// markerName resolves the local name the marker package is imported under,
// or "" if the file does not import it.
func markerName(f *ast.File, markerPath string) string {
	for _, imp := range f.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if path != markerPath {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name
		}
		return pathLocalName(path)
	}
	return ""
}

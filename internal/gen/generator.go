package gen

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"factory-generator/internal/common"
	"factory-generator/internal/plan"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// RuntimeImport is the import path of the factory runtime package.
	RuntimeImport string
	// OutputSuffix replaces ".go" in the declaring file name.
	OutputSuffix string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
	// DebugUnformatted writes a .unformatted.go sidecar when formatting fails.
	DebugUnformatted bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		RuntimeImport:    "factory-generator/factory",
		OutputSuffix:     "_factory.go",
		GenerateComments: true,
		DebugUnformatted: true,
	}
}

// Generator generates builder code from analyzed plans.
type Generator struct {
	config GeneratorConfig
	logger *slog.Logger
}

// NewGenerator creates a new Generator. A nil logger uses slog.Default().
func NewGenerator(config GeneratorConfig, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}

	def := DefaultGeneratorConfig()
	if config.RuntimeImport == "" {
		config.RuntimeImport = def.RuntimeImport
	}

	if config.OutputSuffix == "" {
		config.OutputSuffix = def.OutputSuffix
	}

	return &Generator{config: config, logger: logger}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Path is where the file belongs, next to its declaring file.
	Path string
	// Source is the declaring file.
	Source string
	// Content is the formatted Go source code.
	Content []byte
}

// OutputPath returns the generated file path for a declaring source file.
func (g *Generator) OutputPath(source string) string {
	return strings.TrimSuffix(source, ".go") + g.config.OutputSuffix
}

// Generate generates one file per file plan of p. Generated identifiers are
// unique across the whole package.
func (g *Generator) Generate(p *plan.Plan) ([]GeneratedFile, error) {
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("package %s has declaration errors: %w", p.Package, err)
	}

	ns := newNamespace(p.Taken)

	var files []GeneratedFile

	for _, fp := range p.Files {
		file, err := g.generateFile(p, fp, ns)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", filepath.Base(fp.Source), err)
		}

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) generateFile(p *plan.Plan, fp plan.FilePlan, ns *namespace) (*GeneratedFile, error) {
	out := g.OutputPath(fp.Source)

	data, err := g.buildFileData(p, fp, ns)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.ExecuteTemplate(&buf, "file", data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := imports.Process(out, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		if g.config.DebugUnformatted {
			_ = writeDebugUnformatted(out, buf.Bytes())
		}

		return &GeneratedFile{Path: out, Source: fp.Source, Content: buf.Bytes()},
			fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	g.logger.Debug("generated file",
		slog.String("path", out),
		slog.Int("builders", len(fp.Declarations)))

	return &GeneratedFile{Path: out, Source: fp.Source, Content: formatted}, nil
}

func (g *Generator) buildFileData(p *plan.Plan, fp plan.FilePlan, ns *namespace) (*fileData, error) {
	imps := newImportSet(fp.Imports, p.Package, g.config.RuntimeImport)
	data := &fileData{Marker: common.GeneratedMarker, PackageName: p.Name}

	for i := range fp.Declarations {
		d := &fp.Declarations[i]

		b, err := g.buildBuilder(d, imps, ns)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Builder, err)
		}

		data.Builders = append(data.Builders, b)
	}

	data.Imports = imps.specs()

	return data, nil
}

func (g *Generator) buildBuilder(d *plan.AnalyzedDeclaration, imps *importSet, ns *namespace) (builderData, error) {
	rt := imps.runtimePrefix()

	b := builderData{
		Name:     d.Builder,
		Model:    d.Model,
		Table:    d.Table,
		IDField:  d.IDField,
		NoID:     d.NoID,
		RT:       rt,
		Comments: g.config.GenerateComments,
	}

	if err := imps.use(d.Model); err != nil {
		return b, err
	}

	conn, err := imps.connection(d.Connection)
	if err != nil {
		return b, err
	}

	b.Connection = conn

	if ctor := "New" + d.Builder; !ns.has(ctor) {
		b.Constructor = ns.claim(ctor)
	} else {
		g.logger.Debug("constructor already declared, skipping", slog.String("name", ctor))
	}

	for _, f := range d.Fields {
		fd := fieldData{
			Name:   f.Name,
			Title:  common.Capitalize(f.Name),
			Type:   f.Type,
			Column: f.Column,
			Expr:   "f." + f.Name,
		}

		if f.Kind == plan.FieldAssociation {
			a := f.Association
			fd.Assoc = true
			fd.Optional = a.Optional
			fd.Model = a.Model
			fd.Factory = a.Factory
			fd.Var = common.LowerFirst(f.Name) + "ID"
			fd.Expr = fd.Var
			fd.Interface = ns.claim(d.Builder+fd.Title, a.FactoryBase+d.Builder+fd.Title)

			for _, t := range []string{a.Model, a.Factory} {
				if err := imps.use(t); err != nil {
					return b, err
				}
			}
		} else if err := imps.use(f.Type); err != nil {
			return b, err
		}

		b.Fields = append(b.Fields, fd)

		if !f.Skip {
			b.Columns = append(b.Columns, fd)
		}
	}

	return b, nil
}

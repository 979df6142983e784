// Package gen produces Go bridge-stub source from validated method
// descriptors. The output is a self-contained method table per exposed type,
// ready to be linked into the extension module glue.
package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"pybridge/internal/classify"
	"pybridge/internal/decl"
)

// TypeMethods pairs an exposed type with its validated descriptors.
type TypeMethods struct {
	Type        string
	Descriptors []*classify.Descriptor
}

// Result contains the generated source code.
type Result struct {
	Code string
}

// Generate renders one Go source file with method tables for every type.
// Types are emitted in name order so the output is deterministic.
func Generate(pkg string, types []TypeMethods) (*Result, error) {
	if pkg == "" {
		pkg = "bridge"
	}

	sorted := append([]TypeMethods(nil), types...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Type < sorted[j].Type })

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by pybridge. DO NOT EDIT.")

	emitDefTypes(f)

	for _, t := range sorted {
		emitTypeTable(f, t)
	}
	emitIndex(f, sorted)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render bridge stubs: %w", err)
	}
	return &Result{Code: buf.String()}, nil
}

// WriteFile renders the stubs and writes them to dir/name.
func WriteFile(dir, name, pkg string, types []TypeMethods) error {
	res, err := Generate(pkg, types)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(res.Code), 0o644)
}

func emitDefTypes(f *jen.File) {
	f.Comment("methodDef describes one method exposed to the Python side.")
	f.Type().Id("methodDef").Struct(
		jen.Id("GoName").String(),
		jen.Id("PyName").String(),
		jen.Id("Role").String(),
		jen.Id("Receiver").String(),
		jen.Id("Params").Index().Id("paramDef"),
		jen.Id("TextSignature").String(),
		jen.Id("HasTextSignature").Bool(),
	)
	f.Line()

	f.Type().Id("paramDef").Struct(
		jen.Id("Name").String(),
		jen.Id("Type").String(),
		jen.Id("HasDefault").Bool(),
	)
	f.Line()
}

func emitTypeTable(f *jen.File, t TypeMethods) {
	values := make([]jen.Code, 0, len(t.Descriptors))
	for _, d := range t.Descriptors {
		values = append(values, methodValue(d))
	}

	f.Commentf("%s lists the exposed methods of %s.", tableName(t.Type), t.Type)
	f.Var().Id(tableName(t.Type)).Op("=").Index().Id("methodDef").Values(values...)
	f.Line()
}

func emitIndex(f *jen.File, types []TypeMethods) {
	entries := jen.Dict{}
	for _, t := range types {
		entries[jen.Lit(t.Type)] = jen.Id(tableName(t.Type))
	}

	f.Comment("methodTables indexes every exposed type by name.")
	f.Var().Id("methodTables").Op("=").Map(jen.String()).Index().Id("methodDef").Values(entries)
	f.Line()
}

func methodValue(d *classify.Descriptor) jen.Code {
	fields := jen.Dict{
		jen.Id("GoName"):   jen.Lit(d.GoName),
		jen.Id("PyName"):   jen.Lit(d.PyName),
		jen.Id("Role"):     jen.Lit(roleToken(d.Role)),
		jen.Id("Receiver"): jen.Lit(receiverToken(d)),
	}
	if len(d.Params) > 0 {
		params := make([]jen.Code, 0, len(d.Params))
		for _, p := range d.Params {
			params = append(params, jen.Values(jen.Dict{
				jen.Id("Name"):       jen.Lit(p.Name),
				jen.Id("Type"):       jen.Lit(p.Type),
				jen.Id("HasDefault"): jen.Lit(p.HasDefault),
			}))
		}
		fields[jen.Id("Params")] = jen.Index().Id("paramDef").Values(params...)
	}
	if d.HasTextSig {
		fields[jen.Id("TextSignature")] = jen.Lit(d.TextSignature)
		fields[jen.Id("HasTextSignature")] = jen.Lit(true)
	}
	return jen.Values(fields)
}

// roleToken is the compact role tag used in generated tables.
func roleToken(role classify.Role) string {
	switch role {
	case classify.RoleStatic:
		return "static"
	case classify.RoleClass:
		return "class"
	case classify.RoleClassAttr:
		return "classattr"
	case classify.RoleGetter:
		return "getter"
	case classify.RoleSetter:
		return "setter"
	case classify.RoleNew:
		return "new"
	case classify.RoleCall:
		return "call"
	default:
		return "instance"
	}
}

func receiverToken(d *classify.Descriptor) string {
	switch d.Receiver {
	case decl.RecvRef:
		return "ref"
	case decl.RecvMutRef:
		return "mut_ref"
	case decl.RecvValue:
		return "value"
	default:
		return "none"
	}
}

// tableName converts an exposed type name to its table variable name,
// e.g. "HttpClient" -> "httpClientMethods".
func tableName(typeName string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, typeName)
	if clean == "" {
		clean = "anonymous"
	}
	runes := []rune(clean)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes) + "Methods"
}

package decl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pybridge/internal/source"
)

// Wire format, as emitted by the front end. Spans are [start, end) byte
// offsets into the batch's source file.

type batchJSON struct {
	Type       string     `json:"type"`
	Source     string     `json:"source"`
	SourceText *string    `json:"source_text,omitempty"`
	Decls      []declJSON `json:"decls"`
}

type declJSON struct {
	Name     string        `json:"name"`
	NameSpan spanJSON      `json:"name_span"`
	Span     spanJSON      `json:"span"`
	Receiver *receiverJSON `json:"receiver,omitempty"`
	Params   []paramJSON   `json:"params,omitempty"`
	Generics []genericJSON `json:"generics,omitempty"`
	Markers  []markerJSON  `json:"markers,omitempty"`
}

type receiverJSON struct {
	Kind string   `json:"kind"`
	Span spanJSON `json:"span"`
}

type paramJSON struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Span       spanJSON `json:"span"`
	TypeSpan   spanJSON `json:"type_span"`
	Opaque     bool     `json:"opaque,omitempty"`
	HasDefault bool     `json:"default,omitempty"`
}

type genericJSON struct {
	Name string   `json:"name"`
	Span spanJSON `json:"span"`
}

type markerJSON struct {
	Kind  string   `json:"kind"`
	Value string   `json:"value,omitempty"`
	Span  spanJSON `json:"span"`
}

// spanJSON is the [start, end] pair used on the wire.
type spanJSON [2]uint32

func (s spanJSON) toSpan(file source.FileID) source.Span {
	return source.Span{File: file, Start: s[0], End: s[1]}
}

// DecodeBatch decodes one declaration batch. The batch's source text is
// registered in fs: embedded source_text becomes a virtual file, otherwise
// the source path is loaded from disk relative to baseDir. A missing source
// file is not an error: spans still resolve against an empty virtual file,
// they just lose line precision.
func DecodeBatch(fs *source.FileSet, data []byte, baseDir string) (*Batch, error) {
	var raw batchJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if raw.Type == "" {
		return nil, fmt.Errorf("decode batch: missing \"type\"")
	}
	if raw.Source == "" {
		return nil, fmt.Errorf("decode batch: missing \"source\"")
	}

	var fileID source.FileID
	switch {
	case raw.SourceText != nil:
		fileID = fs.AddVirtual(raw.Source, []byte(*raw.SourceText))
	default:
		path := raw.Source
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		id, err := fs.Load(path)
		if err != nil {
			id = fs.AddVirtual(raw.Source, nil)
		}
		fileID = id
	}

	batch := &Batch{
		Type:   raw.Type,
		Source: raw.Source,
		File:   fileID,
		Decls:  make([]Decl, 0, len(raw.Decls)),
	}

	for i, rd := range raw.Decls {
		d, err := rd.toDecl(fileID)
		if err != nil {
			return nil, fmt.Errorf("decode batch: decl %d (%s): %w", i, rd.Name, err)
		}
		batch.Decls = append(batch.Decls, d)
	}
	return batch, nil
}

// LoadBatch reads a batch JSON file from disk and decodes it. Source paths
// inside the batch resolve relative to the batch file's directory.
func LoadBatch(fs *source.FileSet, path string) (*Batch, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeBatch(fs, data, filepath.Dir(path))
}

func (rd declJSON) toDecl(file source.FileID) (Decl, error) {
	if rd.Name == "" {
		return Decl{}, fmt.Errorf("missing \"name\"")
	}

	d := Decl{
		Name:     rd.Name,
		NameSpan: rd.NameSpan.toSpan(file),
		Span:     rd.Span.toSpan(file),
	}

	if rd.Receiver != nil {
		kind, err := parseReceiverKind(rd.Receiver.Kind)
		if err != nil {
			return Decl{}, err
		}
		d.Receiver = Receiver{Kind: kind, Span: rd.Receiver.Span.toSpan(file)}
	}

	for _, p := range rd.Params {
		d.Params = append(d.Params, Param{
			Name:       p.Name,
			Type:       p.Type,
			HasDefault: p.HasDefault,
			Opaque:     p.Opaque,
			Span:       p.Span.toSpan(file),
			TypeSpan:   p.TypeSpan.toSpan(file),
		})
	}

	for _, g := range rd.Generics {
		d.Generics = append(d.Generics, GenericParam{
			Name: g.Name,
			Span: g.Span.toSpan(file),
		})
	}

	for _, m := range rd.Markers {
		d.Markers = append(d.Markers, Marker{
			Kind:  ParseMarkerKind(m.Kind),
			Raw:   m.Kind,
			Value: m.Value,
			Span:  m.Span.toSpan(file),
		})
	}

	return d, nil
}

func parseReceiverKind(s string) (ReceiverKind, error) {
	switch s {
	case "", "none":
		return RecvNone, nil
	case "ref":
		return RecvRef, nil
	case "mut_ref":
		return RecvMutRef, nil
	case "value":
		return RecvValue, nil
	}
	return RecvNone, fmt.Errorf("unknown receiver kind %q", s)
}

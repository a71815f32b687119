// Package catalog loads declared functions, table-valued functions and
// procedures from catalog YAML files, validating every signature in the
// context of its entity. A bad signature is reported and skipped rather
// than aborting the load, so one typo does not take down a whole
// catalog.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/funsql/internal/descpool"
	"github.com/funvibe/funsql/internal/function"
	"github.com/funvibe/funsql/internal/signature"
	"github.com/funvibe/funsql/internal/types"
	"github.com/funvibe/funsql/internal/wire"
)

// File is the parsed shape of one catalog YAML file.
type File struct {
	Functions      []FunctionEntry  `yaml:"functions,omitempty"`
	TableFunctions []TableEntry     `yaml:"table_functions,omitempty"`
	Procedures     []ProcedureEntry `yaml:"procedures,omitempty"`
}

// FunctionEntry declares one function with its overload signatures.
type FunctionEntry struct {
	Name       string               `yaml:"name"`
	Group      string               `yaml:"group,omitempty"`
	Mode       string               `yaml:"mode,omitempty"`
	Signatures []wire.SignatureData `yaml:"signatures"`
}

// TableEntry declares one table-valued function. Name may be a dotted
// path.
type TableEntry struct {
	Name      string              `yaml:"name"`
	Signature *wire.SignatureData `yaml:"signature"`
}

// ProcedureEntry declares one procedure. Name may be a dotted path.
type ProcedureEntry struct {
	Name      string              `yaml:"name"`
	Signature *wire.SignatureData `yaml:"signature"`
}

// EntryError ties a load failure to the catalog entry that caused it.
type EntryError struct {
	File  string
	Entry string
	Err   error
}

func (e EntryError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.File, e.Entry, e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }

// Report is the outcome of a load: the entities that validated plus one
// error per rejected entry or signature.
type Report struct {
	Functions      []*function.Function
	TableFunctions []*function.TableValuedFunction
	Procedures     []*function.Procedure
	Errors         []EntryError
}

// NumEntities counts the loaded entities of all three kinds.
func (r *Report) NumEntities() int {
	return len(r.Functions) + len(r.TableFunctions) + len(r.Procedures)
}

// OK reports whether the load finished without rejections.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Loader deserializes catalog files against a descriptor pool and the
// configured language options.
type Loader struct {
	pool *descpool.Pool
	opts *types.LanguageOptions
	log  *zap.Logger
}

// NewLoader builds a loader. pool may be nil when the catalogs use no
// proto or enum types; opts may be nil for the internal mode with every
// feature enabled; log may be nil to discard logs.
func NewLoader(pool *descpool.Pool, opts *types.LanguageOptions, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{pool: pool, opts: opts, log: log}
}

// Load reads and parses the given catalog files. An unreadable or
// unparsable file contributes one error and the load moves on.
func (l *Loader) Load(paths ...string) *Report {
	report := &Report{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			report.Errors = append(report.Errors, EntryError{File: path, Err: err})
			l.log.Warn("skipping catalog file", zap.String("catalog", path), zap.Error(err))
			continue
		}
		l.parse(report, data, path)
	}
	return report
}

// LoadBytes parses one catalog document already in memory. name labels
// it in errors and logs.
func (l *Loader) LoadBytes(data []byte, name string) *Report {
	report := &Report{}
	l.parse(report, data, name)
	return report
}

func (l *Loader) parse(report *Report, data []byte, path string) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		report.Errors = append(report.Errors, EntryError{
			File: path,
			Err:  fmt.Errorf("parsing catalog: %w", err),
		})
		l.log.Warn("skipping catalog file", zap.String("catalog", path), zap.Error(err))
		return
	}
	for i := range file.Functions {
		l.loadFunction(report, path, &file.Functions[i])
	}
	for i := range file.TableFunctions {
		l.loadTableFunction(report, path, &file.TableFunctions[i])
	}
	for i := range file.Procedures {
		l.loadProcedure(report, path, &file.Procedures[i])
	}
	l.log.Info("loaded catalog",
		zap.String("catalog", path),
		zap.Int("entities", report.NumEntities()),
		zap.Int("errors", len(report.Errors)))
}

func (l *Loader) reject(report *Report, path, entry string, err error) {
	report.Errors = append(report.Errors, EntryError{File: path, Entry: entry, Err: err})
	l.log.Warn("rejected catalog entry",
		zap.String("catalog", path),
		zap.String("entry", entry),
		zap.Error(err))
}

// decode deserializes one wire signature and checks its types against
// the configured language options.
func (l *Loader) decode(data *wire.SignatureData, name string) (*signature.Signature, error) {
	sig, err := wire.DecodeSignature(data, l.pool)
	if err != nil {
		return nil, err
	}
	if sig.HasUnsupportedType(l.opts) {
		return nil, fmt.Errorf("unsupported type in %s mode: %s",
			l.opts.ProductMode(), sig.DebugString(name, false))
	}
	return sig, nil
}

// loadFunction builds a function from the surviving signatures of an
// entry. Signatures that fail to decode or validate are rejected one by
// one; the entry is dropped only when none survive.
func (l *Loader) loadFunction(report *Report, path string, entry *FunctionEntry) {
	if entry.Name == "" {
		l.reject(report, path, "", errors.New("function entry has no name"))
		return
	}
	mode, ok := function.ModeFromName(entry.Mode)
	if !ok {
		l.reject(report, path, entry.Name, fmt.Errorf("unknown function mode %q", entry.Mode))
		return
	}
	if len(entry.Signatures) == 0 {
		l.reject(report, path, entry.Name, errors.New("function has no signatures"))
		return
	}
	fn, err := function.NewFunction(entry.Name, entry.Group, mode)
	if err != nil {
		l.reject(report, path, entry.Name, err)
		return
	}
	for i := range entry.Signatures {
		sig, err := l.decode(&entry.Signatures[i], entry.Name)
		if err == nil {
			err = fn.AddSignature(sig)
		}
		if err != nil {
			l.reject(report, path, entry.Name, fmt.Errorf("signature %d: %w", i, err))
		}
	}
	if fn.NumSignatures() == 0 {
		return
	}
	report.Functions = append(report.Functions, fn)
	l.log.Debug("loaded function",
		zap.String("catalog", path),
		zap.String("name", fn.FullName(true)),
		zap.Int("signatures", fn.NumSignatures()))
}

func (l *Loader) loadTableFunction(report *Report, path string, entry *TableEntry) {
	if entry.Name == "" {
		l.reject(report, path, "", errors.New("table function entry has no name"))
		return
	}
	if entry.Signature == nil {
		l.reject(report, path, entry.Name, errors.New("table function has no signature"))
		return
	}
	sig, err := l.decode(entry.Signature, entry.Name)
	if err != nil {
		l.reject(report, path, entry.Name, err)
		return
	}
	tvf, err := function.NewTableValuedFunction(strings.Split(entry.Name, "."), sig)
	if err != nil {
		l.reject(report, path, entry.Name, err)
		return
	}
	report.TableFunctions = append(report.TableFunctions, tvf)
	l.log.Debug("loaded table function",
		zap.String("catalog", path),
		zap.String("name", tvf.FullName()))
}

func (l *Loader) loadProcedure(report *Report, path string, entry *ProcedureEntry) {
	if entry.Name == "" {
		l.reject(report, path, "", errors.New("procedure entry has no name"))
		return
	}
	if entry.Signature == nil {
		l.reject(report, path, entry.Name, errors.New("procedure has no signature"))
		return
	}
	sig, err := l.decode(entry.Signature, entry.Name)
	if err != nil {
		l.reject(report, path, entry.Name, err)
		return
	}
	proc, err := function.NewProcedure(strings.Split(entry.Name, "."), sig)
	if err != nil {
		l.reject(report, path, entry.Name, err)
		return
	}
	report.Procedures = append(report.Procedures, proc)
	l.log.Debug("loaded procedure",
		zap.String("catalog", path),
		zap.String("name", proc.FullName()))
}

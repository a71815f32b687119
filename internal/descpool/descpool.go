// Package descpool holds parsed protobuf file descriptors and resolves
// message and enum names against them. Proto and enum SQL types carry
// descriptors from a pool; catalog files and wire payloads reference
// them by fully qualified name.
package descpool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/funvibe/funsql/internal/types"
)

// Pool is a registry of protobuf file descriptors keyed by file name.
// It is safe for concurrent use.
type Pool struct {
	mu    sync.RWMutex
	files map[string]*desc.FileDescriptor
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{files: make(map[string]*desc.FileDescriptor)}
}

// LoadFiles parses the named .proto files and registers them together
// with their transitive dependencies. importPaths defaults to the
// current directory.
func (p *Pool) LoadFiles(importPaths []string, filenames ...string) error {
	parser := protoparse.Parser{ImportPaths: importPaths}
	if len(importPaths) == 0 {
		parser.ImportPaths = []string{"."}
	}
	fds, err := parser.ParseFiles(filenames...)
	if err != nil {
		return fmt.Errorf("failed to parse proto: %w", err)
	}
	p.Add(fds...)
	return nil
}

// LoadFileContents parses .proto sources supplied in memory, keyed by
// file name, and registers the named entry points. Used for embedded
// service definitions and tests.
func (p *Pool) LoadFileContents(sources map[string]string, filenames ...string) error {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(sources),
	}
	fds, err := parser.ParseFiles(filenames...)
	if err != nil {
		return fmt.Errorf("failed to parse proto: %w", err)
	}
	p.Add(fds...)
	return nil
}

// Add registers descriptors and their transitive dependencies. A file
// already present is replaced.
func (p *Pool) Add(fds ...*desc.FileDescriptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, fd := range fds {
		p.addLocked(fd)
	}
}

func (p *Pool) addLocked(fd *desc.FileDescriptor) {
	p.files[fd.GetName()] = fd
	for _, dep := range fd.GetDependencies() {
		if _, ok := p.files[dep.GetName()]; !ok {
			p.addLocked(dep)
		}
	}
}

// FileNames lists the registered files in sorted order.
func (p *Pool) FileNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.files))
	for name := range p.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DescriptorSet exports every registered file as a FileDescriptorSet,
// dependencies before dependents, for storage and interchange with
// protoc tooling.
func (p *Pool) DescriptorSet() *descriptorpb.FileDescriptorSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.files))
	for name := range p.files {
		names = append(names, name)
	}
	sort.Strings(names)

	set := &descriptorpb.FileDescriptorSet{}
	seen := make(map[string]bool, len(names))
	var add func(fd *desc.FileDescriptor)
	add = func(fd *desc.FileDescriptor) {
		if seen[fd.GetName()] {
			return
		}
		seen[fd.GetName()] = true
		for _, dep := range fd.GetDependencies() {
			add(dep)
		}
		set.File = append(set.File, fd.AsFileDescriptorProto())
	}
	for _, name := range names {
		add(p.files[name])
	}
	return set
}

// FromDescriptorSet rebuilds a pool from an exported descriptor set.
func FromDescriptorSet(set *descriptorpb.FileDescriptorSet) (*Pool, error) {
	fds, err := desc.CreateFileDescriptorsFromSet(set)
	if err != nil {
		return nil, fmt.Errorf("restoring descriptors: %w", err)
	}
	p := New()
	for _, fd := range fds {
		p.Add(fd)
	}
	return p, nil
}

// FindMessage resolves a fully qualified message name.
func (p *Pool) FindMessage(name string) (*desc.MessageDescriptor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, fd := range p.files {
		if md := fd.FindMessage(name); md != nil {
			return md, nil
		}
	}
	return nil, fmt.Errorf("message type %q not found (was its proto loaded?)", name)
}

// FindEnum resolves a fully qualified enum name.
func (p *Pool) FindEnum(name string) (*desc.EnumDescriptor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, fd := range p.files {
		if ed := fd.FindEnum(name); ed != nil {
			return ed, nil
		}
	}
	return nil, fmt.Errorf("enum type %q not found (was its proto loaded?)", name)
}

// FindService resolves a fully qualified service name.
func (p *Pool) FindService(name string) (*desc.ServiceDescriptor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, fd := range p.files {
		if sd := fd.FindService(name); sd != nil {
			return sd, nil
		}
		for _, sd := range fd.GetServices() {
			if sd.GetName() == name {
				return sd, nil
			}
		}
	}
	return nil, fmt.Errorf("service %q not found (was its proto loaded?)", name)
}

// MessageType resolves a message name into a SQL proto type.
func (p *Pool) MessageType(name string) (*types.ProtoType, error) {
	md, err := p.FindMessage(name)
	if err != nil {
		return nil, err
	}
	return types.NewProtoType(md)
}

// EnumType resolves an enum name into a SQL enum type.
func (p *Pool) EnumType(name string) (*types.EnumType, error) {
	ed, err := p.FindEnum(name)
	if err != nil {
		return nil, err
	}
	return types.NewEnumType(ed)
}

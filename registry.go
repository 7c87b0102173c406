package nuklei

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/ids"
	"github.com/arloliu/nuklei/layout"
)

// Func is a library function callable by name with untyped arguments.
type Func func(args ...any) (any, error)

// Library is a named, immutable set of functions.
type Library struct {
	prefix string
	funcs  map[string]Func
}

func newLibrary(prefix string, funcs map[string]Func) *Library {
	return &Library{prefix: prefix, funcs: funcs}
}

// Prefix returns the namespace scripts use for the library, such as "core".
func (l *Library) Prefix() string {
	return l.prefix
}

// Names returns the function names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.funcs))
	for name := range l.funcs {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Lookup returns the named function.
func (l *Library) Lookup(name string) (Func, bool) {
	fn, ok := l.funcs[name]
	return fn, ok
}

// Call invokes the named function.
//
// Returns errs.ErrUnknownFunction for a name the library does not define and
// errs.ErrInvalidArgument when the arguments do not match the function.
func (l *Library) Call(name string, args ...any) (any, error) {
	fn, ok := l.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", errs.ErrUnknownFunction, l.prefix, name)
	}

	out, err := fn(args...)
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", l.prefix, name, err)
	}

	return out, nil
}

var (
	coreLibrary = newLibrary("core", map[string]Func{
		"string":       fn1E(textArg, String),
		"string16":     fn1E(textArg, String16),
		"vstring":      fn1E(textArg, VString),
		"vint":         fn1(int64Arg, VInt),
		"fromHex":      fn1E(valueArg[string], FromHex),
		"capabilities": fnVariadicE(valueArg[string], Capabilities),
		"random":       fn0(Random),
	})

	nukleiLibrary = newLibrary("nuklei", map[string]Func{
		"directory":          fn1E(valueArg[string], directory),
		"newReferenceId":     fn0(NewReferenceID),
		"newInitialStreamId": fn0(NewInitialStreamID),
		"newReplyStreamId":   fn0(NewReplyStreamID),
		"newCorrelationId":   fn0(NewCorrelationID),
		"newStreamId":        fn0(NewStreamID),
	})

	streamsLibrary = newLibrary("streams", map[string]Func{
		"newReferenceId":     fn0(func() []byte { return ids.Bytes(ids.NewReferenceID()) }),
		"newInitialStreamId": fn0(func() []byte { return ids.Bytes(ids.NewInitialStreamID()) }),
		"newReplyStreamId":   fn0(func() []byte { return ids.Bytes(ids.NewReplyStreamID()) }),
		"map":                fn2E(valueArg[string], intArg, mapStreams),
	})

	controlLibrary = newLibrary("control", map[string]Func{
		"mapNew": fn3E(valueArg[string], intArg, intArg, mapNewControl),
		"map":    fn3E(valueArg[string], intArg, intArg, mapControl),
	})
)

// CoreLibrary returns the "core" codec functions: string, string16, vstring,
// vint, fromHex, capabilities and random.
func CoreLibrary() *Library {
	return coreLibrary
}

// NukleiLibrary returns the "nuklei" functions: directory and the id generators.
func NukleiLibrary() *Library {
	return nukleiLibrary
}

// StreamsLibrary returns the "streams" functions, which render ids as
// native-order bytes and map a single stream ring.
func StreamsLibrary() *Library {
	return streamsLibrary
}

// ControlLibrary returns the "control" functions that map a control file by path.
func ControlLibrary() *Library {
	return controlLibrary
}

// Libraries returns every library.
func Libraries() []*Library {
	return []*Library{coreLibrary, nukleiLibrary, streamsLibrary, controlLibrary}
}

// LookupLibrary returns the library registered under prefix.
func LookupLibrary(prefix string) (*Library, bool) {
	for _, lib := range Libraries() {
		if lib.prefix == prefix {
			return lib, true
		}
	}

	return nil, false
}

// Resolve calls a function by its qualified "prefix:name".
func Resolve(qualified string, args ...any) (any, error) {
	prefix, name, ok := strings.Cut(qualified, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q is not prefix:name", errs.ErrUnknownFunction, qualified)
	}

	lib, ok := LookupLibrary(prefix)
	if !ok {
		return nil, fmt.Errorf("%w: no library %q", errs.ErrUnknownFunction, prefix)
	}

	return lib.Call(name, args...)
}

func directory(root string) (*layout.Directory, error) {
	return Directory(root)
}

func mapStreams(path string, streamCapacity int) (*layout.Streams, error) {
	return layout.NewDeferredStreams(path, layout.ModeAttach, streamCapacity, 0)
}

func mapNewControl(path string, commandCapacity, responseCapacity int) (*layout.Control, error) {
	return layout.CreateControl(path, commandCapacity, responseCapacity, layout.WithOverwrite())
}

func mapControl(path string, commandCapacity, responseCapacity int) (*layout.Control, error) {
	return layout.NewDeferredControl(path, layout.ModeAttach, commandCapacity, responseCapacity)
}

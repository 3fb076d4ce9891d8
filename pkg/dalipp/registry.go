package dalipp

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"regexp"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"

	"github.com/randalmurphal/dalipp/pkg/dalipp/observability"
	"github.com/randalmurphal/dalipp/pkg/dalipp/registry"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// templateRx captures the base name of a templated type: "Dali::Vector<int>"
// yields "Dali::Vector".
var templateRx = regexp.MustCompile(`^([a-zA-Z0-9_:]+)<.*>$`)

// Match reports which rule resolved a type name.
type Match int

// Resolution outcomes, in the order they are tried.
const (
	MatchNone Match = iota
	MatchExact
	MatchTemplate
	MatchGeneric
)

// String returns the match name used in logs and metric attributes.
func (m Match) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchTemplate:
		return "template"
	case MatchGeneric:
		return "generic"
	default:
		return "none"
	}
}

// resolution is the memoized result of Resolve.
type resolution struct {
	entry *Entry
	match Match
}

// Registry maps type names to printers.
//
// A Registry is built once, frozen, and then shared. Resolution is
// deterministic for a given name.
type Registry struct {
	name      string
	entries   *registry.Table[string, *Entry]
	genericRx *regexp.Regexp
	generic   *Entry
	enabled   atomic.Bool
	cache     *gocache.Cache
	opts      options
}

// New creates an empty registry named name (for example "libdali").
func New(name string, opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		name:    name,
		entries: registry.New[string, *Entry](),
		opts:    o,
	}
	r.enabled.Store(true)
	if o.genericMarker != "" {
		r.genericRx = regexp.MustCompile(`.*` + regexp.QuoteMeta(o.genericMarker) + `.*`)
		r.generic = newEntry(GenericName, r.newGeneric)
	}
	if o.cacheTTL > 0 {
		r.cache = gocache.New(o.cacheTTL, 2*o.cacheTTL)
	}
	return r
}

// Name returns the registry name.
func (r *Registry) Name() string { return r.name }

// Enabled reports whether the registry participates in lookups.
func (r *Registry) Enabled() bool { return r.enabled.Load() }

// SetRegistryEnabled turns the whole registry on or off.
func (r *Registry) SetRegistryEnabled(on bool) { r.enabled.Store(on) }

// Register inserts or replaces the printer for name. Registering the same
// name twice is not an error; the last registration wins.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return ErrEmptyName
	}
	if factory == nil {
		return ErrNilFactory
	}
	replaced, err := r.entries.Register(name, newEntry(name, factory))
	if err != nil {
		return err
	}
	r.flush()
	if replaced && r.opts.logger != nil {
		r.opts.logger.Debug("printer replaced",
			slog.String("registry", r.name),
			slog.String("printer", name),
		)
	}
	return nil
}

// RegisterMany registers every (name, factory) pair. The batch is rejected
// as a whole if any pair is invalid.
func (r *Registry) RegisterMany(factories map[string]Factory) error {
	entries := make(map[string]*Entry, len(factories))
	for name, f := range factories {
		if name == "" {
			return ErrEmptyName
		}
		if f == nil {
			return ErrNilFactory
		}
		entries[name] = newEntry(name, f)
	}
	if err := r.entries.RegisterMany(entries); err != nil {
		return err
	}
	r.flush()
	return nil
}

// Freeze makes the registry read-only. Register returns ErrFrozen afterwards.
func (r *Registry) Freeze() { r.entries.Freeze() }

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool { return r.entries.Frozen() }

// Len returns the number of registered printers, excluding the generic one.
func (r *Registry) Len() int { return r.entries.Len() }

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string { return r.entries.Keys() }

// Entry returns the printer registered under name. GenericName returns the
// generic structural printer when the fallback is enabled.
func (r *Registry) Entry(name string) (*Entry, bool) {
	if e, ok := r.entries.Get(name); ok {
		return e, true
	}
	if name == GenericName && r.generic != nil {
		return r.generic, true
	}
	return nil, false
}

// Has reports whether name is registered. GenericName is present when the
// fallback is enabled.
func (r *Registry) Has(name string) bool {
	if name == GenericName {
		return r.generic != nil
	}
	return r.entries.Has(name)
}

// Entries yields the registered printers in name order, then the generic
// printer when the fallback is enabled.
func (r *Registry) Entries() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		done := false
		r.entries.Range(func(_ string, e *Entry) bool {
			done = !yield(e)
			return !done
		})
		if !done && r.generic != nil {
			yield(r.generic)
		}
	}
}

// SetEnabled enables or disables one printer. Disabling is allowed on a
// frozen registry.
func (r *Registry) SetEnabled(name string, on bool) error {
	e, ok := r.Entry(name)
	if !ok {
		return &FormatError{TypeName: name, Printer: name, Err: ErrUnknownPrinter}
	}
	e.SetEnabled(on)
	return nil
}

// Resolve returns the printer for typeName and the rule that matched.
//
// Rules, in order: exact name, template base name, generic marker. A miss
// returns (nil, MatchNone) and is not an error.
func (r *Registry) Resolve(typeName string) (*Entry, Match) {
	if typeName == "" {
		return nil, MatchNone
	}
	if r.cache != nil {
		if cached, ok := r.cache.Get(typeName); ok {
			res := cached.(resolution)
			return res.entry, res.match
		}
	}

	entry, match := r.resolve(typeName)
	if r.cache != nil {
		r.cache.SetDefault(typeName, resolution{entry: entry, match: match})
	}
	return entry, match
}

func (r *Registry) resolve(typeName string) (*Entry, Match) {
	if e, ok := r.entries.Get(typeName); ok {
		return e, MatchExact
	}
	if m := templateRx.FindStringSubmatch(typeName); m != nil {
		if e, ok := r.entries.Get(m[1]); ok {
			return e, MatchTemplate
		}
	}
	if r.genericRx != nil && r.genericRx.MatchString(typeName) {
		return r.generic, MatchGeneric
	}
	return nil, MatchNone
}

// flush drops memoized resolutions after the table changes.
func (r *Registry) flush() {
	if r.cache != nil {
		r.cache.Flush()
	}
}

// Lookup resolves v's basic type name and builds its printer.
//
// It returns (nil, nil) when no printer matches, when the matching printer
// is disabled, or when the registry is disabled. Printer construction
// failures are returned as *FormatError.
func (r *Registry) Lookup(v value.Value) (Printer, error) {
	p, _, err := r.lookup(context.Background(), v)
	return p, err
}

func (r *Registry) lookup(ctx context.Context, v value.Value) (Printer, *Entry, error) {
	if v == nil || !r.Enabled() {
		return nil, nil, nil
	}
	typeName := value.BasicTypeName(v.Type())
	entry, match := r.Resolve(typeName)
	r.opts.metrics.RecordResolve(ctx, r.name, match.String())
	if entry == nil {
		observability.LogResolveMiss(r.opts.logger, typeName)
		return nil, nil, nil
	}
	observability.LogResolve(r.opts.logger, typeName, entry.Name(), match.String())

	p, err := entry.Invoke(typeName, v)
	if err != nil {
		observability.LogFormatError(r.opts.logger, typeName, entry.Name(), err)
		return nil, entry, &FormatError{TypeName: typeName, Printer: entry.Name(), Err: err}
	}
	return p, entry, nil
}

// Format invokes entry on v and collects its output. Nested values are
// rendered with this registry. A nil or disabled entry yields an empty
// Output.
func (r *Registry) Format(ctx context.Context, v value.Value, entry *Entry) (Output, error) {
	if entry == nil || !entry.Enabled() || v == nil {
		return Output{}, nil
	}
	rend := newRenderer(ctx, r, r.opts.maxDepth, nil)
	typeName := value.BasicTypeName(v.Type())

	p, err := entry.Invoke(typeName, v)
	if err != nil {
		return Output{}, &FormatError{TypeName: typeName, Printer: entry.Name(), Err: err}
	}
	return r.collect(ctx, typeName, entry, p, rend)
}

// Render returns the full textual rendering of v: its printer's output, or
// the default representation when no printer applies or the printer fails.
func (r *Registry) Render(ctx context.Context, v value.Value) string {
	return newRenderer(ctx, r, r.opts.maxDepth, nil).Render(v)
}

// format implements formatter.
func (r *Registry) format(ctx context.Context, v value.Value, rend *renderer) (Output, bool, error) {
	p, entry, err := r.lookup(ctx, v)
	if err != nil {
		return Output{}, true, err
	}
	if p == nil {
		return Output{}, false, nil
	}
	out, err := r.collect(ctx, value.BasicTypeName(v.Type()), entry, p, rend)
	return out, true, err
}

// collect turns a printer into Output, recording the format span and metrics.
func (r *Registry) collect(ctx context.Context, typeName string, entry *Entry, p Printer, rend *renderer) (out Output, err error) {
	if p == nil {
		return Output{}, nil
	}
	ctx, span := r.opts.spans.StartFormatSpan(ctx, r.name, typeName)
	rend = rend.withContext(ctx)
	elapsed := observability.TimedOperation()
	defer func() {
		r.opts.metrics.RecordFormat(ctx, entry.Name(), elapsed(), err)
		r.opts.spans.EndSpanWithError(span, err)
		if err != nil {
			observability.LogFormatError(r.opts.logger, typeName, entry.Name(), err)
		}
	}()

	out, err = collectOutput(entry.Name(), p, rend)
	if err != nil {
		var fe *FormatError
		if !errors.As(err, &fe) {
			err = &FormatError{TypeName: typeName, Printer: entry.Name(), Err: err}
		}
	}
	return out, err
}

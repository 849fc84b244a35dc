package router

import (
	"net/http"
	"sync"
)

// Dispatcher resolves handler references and invokes them.
//
// Named references are resolved against an explicit capability table:
// functions registered with RegisterFunc and target factories registered
// with Register. Targets are constructed lazily and cached, so a target
// name yields the same instance for every dispatch until Reset is called.
//
// A Dispatcher is safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	funcs     map[string]Func
	factories map[string]Factory

	cacheMu   sync.Mutex
	instances map[string]*instance
}

// instance is a cache slot for one target name. The slot lock serializes
// construction so concurrent first dispatches build the target once.
// A slot whose construction failed is marked dropped and removed from the
// cache; dispatches waiting on it start over with a fresh slot.
type instance struct {
	mu      sync.Mutex
	target  Target
	dropped bool
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		funcs:     make(map[string]Func),
		factories: make(map[string]Factory),
		instances: make(map[string]*instance),
	}
}

// Register binds a target name to a factory. The name may be qualified
// with a namespace (`app\pages\PageLoader`) or bare (`PageLoader`).
// Registering the same name again replaces the factory; an instance that
// was already constructed stays cached until Reset.
func (d *Dispatcher) Register(name string, f Factory) *Dispatcher {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.factories[normalizeName(name)] = f

	return d
}

// RegisterTarget binds a target name to an already constructed target.
func (d *Dispatcher) RegisterTarget(name string, t Target) *Dispatcher {
	return d.Register(name, func() (Target, error) { return t, nil })
}

// RegisterFunc binds a name to a directly invocable function. A Named
// handler equal to name invokes f without any target lookup.
func (d *Dispatcher) RegisterFunc(name string, f Func) *Dispatcher {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.funcs[normalizeName(name)] = f

	return d
}

// Reset drops every cached target instance. The next dispatch of each
// target calls its factory again.
func (d *Dispatcher) Reset() {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	d.instances = make(map[string]*instance)
}

// Cached returns the cached instance of the named target, if it has been
// constructed.
func (d *Dispatcher) Cached(name string) (Target, bool) {
	d.cacheMu.Lock()
	slot, ok := d.instances[normalizeName(name)]
	d.cacheMu.Unlock()

	if !ok {
		return nil, false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	return slot.target, slot.target != nil
}

// Invoke dispatches h with args. Handler errors are not part of the
// contract: a Func produces its own response. The returned error is a
// *ResolutionError or *InvocationError when a Named handler cannot be
// resolved, or ErrNilHandler.
func (d *Dispatcher) Invoke(w http.ResponseWriter, r *http.Request, h Handler, args []string) error {
	f, err := d.Resolve(h)
	if err != nil {
		return err
	}

	f(w, r, args)

	return nil
}

// Resolve returns the function a handler dispatches to, constructing and
// caching its target when needed.
func (d *Dispatcher) Resolve(h Handler) (Func, error) {
	switch h := h.(type) {
	case Func:
		if h == nil {
			return nil, ErrNilHandler
		}
		return h, nil

	case Named:
		return d.resolveNamed(h)

	default:
		return nil, ErrNilHandler
	}
}

func (d *Dispatcher) resolveNamed(n Named) (Func, error) {
	d.mu.RLock()
	f, ok := d.funcs[normalizeName(string(n))]
	d.mu.RUnlock()

	if ok && f != nil {
		return f, nil
	}

	ref := parseReference(string(n))
	if ref.member == "" {
		return nil, &InvocationError{Ref: string(n), Err: ErrMissingMember}
	}

	key, factory, ok := d.lookup(ref)
	if !ok {
		return nil, &ResolutionError{Ref: string(n), Target: ref.qualified(), Err: ErrTargetNotFound}
	}

	target, err := d.instance(key, factory)
	if err != nil {
		return nil, &ResolutionError{Ref: string(n), Target: key, Err: err}
	}

	member, ok := target.Member(ref.member)
	if !ok {
		return nil, &InvocationError{Ref: string(n), Member: ref.member, Err: ErrMemberNotFound}
	}

	return member, nil
}

// lookup finds the factory for ref, preferring the namespace-qualified
// name and falling back to the bare target name. It returns the name the
// factory was found under, which is also the instance cache key.
func (d *Dispatcher) lookup(ref reference) (string, Factory, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if ref.namespace != "" {
		if f, ok := d.factories[ref.qualified()]; ok && f != nil {
			return ref.qualified(), f, true
		}
	}

	if f, ok := d.factories[ref.target]; ok && f != nil {
		return ref.target, f, true
	}

	return "", nil, false
}

// instance returns the cached target for key, constructing it on first use.
// A failed construction leaves no cache entry so a later dispatch retries.
func (d *Dispatcher) instance(key string, factory Factory) (Target, error) {
	for {
		d.cacheMu.Lock()
		slot, ok := d.instances[key]
		if !ok {
			slot = &instance{}
			d.instances[key] = slot
		}
		d.cacheMu.Unlock()

		slot.mu.Lock()

		if slot.dropped {
			slot.mu.Unlock()
			continue
		}

		if slot.target != nil {
			slot.mu.Unlock()
			return slot.target, nil
		}

		target, err := factory()
		if err == nil && target == nil {
			err = ErrNilTarget
		}
		if err != nil {
			slot.dropped = true
			d.dropSlot(key, slot)
			slot.mu.Unlock()
			return nil, err
		}

		slot.target = target
		slot.mu.Unlock()

		return target, nil
	}
}

// dropSlot removes slot from the cache unless Reset already replaced it.
func (d *Dispatcher) dropSlot(key string, slot *instance) {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	if d.instances[key] == slot {
		delete(d.instances, key)
	}
}

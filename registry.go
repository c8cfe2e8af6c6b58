package di

// registry is the ordered registration table of a single Container.
//
// It is only written while the Container is being created, so reads need no locking.
type registry struct {
	closed map[string][]service
	open   map[string][]service
}

func newRegistry() *registry {
	return &registry{
		closed: make(map[string][]service),
		open:   make(map[string][]service),
	}
}

// register appends the service under its key and every alias.
// Registering the same key again keeps both registrations.
func (r *registry) register(svc service) {
	for _, key := range serviceKeys(svc) {
		if key.IsOpen() {
			r.open[key.id()] = append(r.open[key.id()], svc)
		} else {
			r.closed[key.id()] = append(r.closed[key.id()], svc)
		}
	}
}

// lookup returns every registration for exactly this key, in registration order.
func (r *registry) lookup(key TypeKey) []service {
	return r.closed[key.id()]
}

// lookupLast returns the last registration for the key. A closed registration
// is preferred over a matching open generic registration.
func (r *registry) lookupLast(key TypeKey) service {
	if svc := r.lookupExact(key); svc != nil {
		return svc
	}

	return r.lookupOpen(key)
}

func (r *registry) lookupExact(key TypeKey) service {
	return last(r.closed[key.id()])
}

func (r *registry) lookupOpen(key TypeKey) service {
	if key.IsOpen() || key.IsCollection() || len(key.Args()) == 0 {
		return nil
	}

	return last(r.open[Open(key.name, len(key.args)).id()])
}

func (r *registry) contains(key TypeKey) bool {
	return r.lookupLast(key) != nil
}

func last(svcs []service) service {
	if len(svcs) == 0 {
		return nil
	}

	return svcs[len(svcs)-1]
}

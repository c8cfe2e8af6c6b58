package di

// A Module is a collection of container options.
// It can be used to export a re-usable group of related services.
//
// Example:
//
//	var DependencyModule = di.Module{
//		di.WithService(NewDB),
//		di.WithService(NewStore),
//		di.WithService(NewService),
//	}
type Module []ContainerOption

func (Module) applyContainer(*Container) error { return nil }
func (Module) order() optionOrder              { return orderService }

// WithModule applies the options in a module [Module] when calling [NewContainer] or [Container.NewScope].
//
// Example:
//
//	c, err := di.NewContainer(
//		di.WithModule(DependencyModule), // var DependencyModule di.Module
//		di.WithService(NewHandler), // NewHandler(*slog.Logger, *db.DB) *Handler
//	)
func WithModule(m Module) ContainerOption {
	return m
}

// flattenModules replaces every Module with its options, in place, recursively.
func flattenModules(opts []ContainerOption) []ContainerOption {
	flat := make([]ContainerOption, 0, len(opts))
	for _, opt := range opts {
		if mod, ok := opt.(Module); ok {
			flat = append(flat, flattenModules(mod)...)
			continue
		}
		if opt != nil {
			flat = append(flat, opt)
		}
	}

	return flat
}

package testtypes

import "sync/atomic"

// Factory creates numbered instances so tests can tell them apart.
type Factory struct {
	count atomic.Int64
}

func (f *Factory) NewStructA() *StructA {
	return &StructA{
		Tag: int(f.count.Add(1) - 1),
	}
}

func (f *Factory) NewInterfaceA() InterfaceA {
	return f.NewStructA()
}

// Count returns the number of instances created.
func (f *Factory) Count() int {
	return int(f.count.Load())
}

func ExpectStructA(count int) []*StructA {
	var s []*StructA
	for i := range count {
		s = append(s, &StructA{Tag: i})
	}
	return s
}

func ExpectInterfaceA(count int) []InterfaceA {
	var s []InterfaceA
	for i := range count {
		s = append(s, &StructA{Tag: i})
	}
	return s
}

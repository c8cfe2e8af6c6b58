package testtypes

import (
	"context"

	"github.com/sectrean/di-chain"
)

var (
	KeyInterfaceA = di.TypeOf[InterfaceA]()
	KeyInterfaceB = di.TypeOf[InterfaceB]()
	KeyInterfaceC = di.TypeOf[InterfaceC]()
	KeyInterfaceD = di.TypeOf[InterfaceD]()
	KeyStructAPtr = di.TypeOf[*StructA]()
)

type InterfaceA interface {
	A()
	Close(context.Context) error
}

type InterfaceB interface {
	B()
	Close(context.Context)
}

type InterfaceC interface {
	C()
	Close() error
}

type InterfaceD interface {
	D()
	Close()
}

type StructA struct {
	Tag any
}

func (StructA) A()                          {}
func (StructA) Close(context.Context) error { return nil }

type StructB struct{}

func (StructB) B()                    {}
func (StructB) Close(context.Context) {}

type StructC struct{}

func (StructC) C()           {}
func (StructC) Close() error { return nil }

type StructD struct{}

func (StructD) D()     {}
func (StructD) Close() {}

func NewInterfaceA() InterfaceA {
	return &StructA{}
}

func NewStructAPtr() *StructA {
	return &StructA{}
}

func NewInterfaceB(InterfaceA) InterfaceB {
	return &StructB{}
}

func NewInterfaceC(InterfaceA, InterfaceB) InterfaceC {
	return &StructC{}
}

func NewInterfaceD(InterfaceA, InterfaceB, InterfaceC) InterfaceD {
	return &StructD{}
}

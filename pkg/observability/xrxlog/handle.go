package xrxlog

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

// Param 调用参数。
type Param struct {
	Name  string
	Value any
}

// CallSite 被拦截调用的静态描述。
type CallSite struct {
	Component string
	Method    string
	Params    []Param
}

// Name 返回 "Component.Method"；Component 为空时只返回 Method。
func (c CallSite) Name() string {
	if c.Component == "" {
		return c.Method
	}
	return c.Component + "." + c.Method
}

// String 返回带参数的调用点，如 "Repo.List(limit=3)"。
func (c CallSite) String() string {
	if c.Component == "" {
		return c.signature(0)
	}
	return c.Component + "." + c.signature(0)
}

// clone 复制 Params，调用方之后对原切片的修改不影响副本。
func (c CallSite) clone() CallSite {
	c.Params = slices.Clone(c.Params)
	return c
}

// signature 返回 "Method(a=1, b=x)"，参数值按 maxValueLen 截断。
func (c CallSite) signature(maxValueLen int) string {
	var b strings.Builder
	b.WriteString(c.Method)
	b.WriteByte('(')
	for i, p := range c.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(renderValue(p.Value, maxValueLen))
	}
	b.WriteByte(')')
	return b.String()
}

// CallHandle 一次被拦截的原始调用。
type CallHandle interface {
	// Kind 返回声明的生产者类型。
	Kind() xrx.Kind
	// TypeArgs 返回声明的类型参数名，如 ["int"]。
	TypeArgs() []string
	// Site 返回调用点。
	Site() CallSite
	// Proceed 执行原始调用，至多一次；再次调用返回 ErrDoubleProceed。
	Proceed() (xrx.Producer, error)
}

type callHandle struct {
	kind     xrx.Kind
	site     CallSite
	typeArgs []string
	proceed  func() (xrx.Producer, error)
	called   atomic.Bool
}

// NewCallHandle 创建 CallHandle。typeArgs 由拦截层根据声明类型给出。
func NewCallHandle(kind xrx.Kind, site CallSite, typeArgs []string, proceed func() (xrx.Producer, error)) CallHandle {
	site = site.clone()
	return &callHandle{
		kind:     kind,
		site:     site,
		typeArgs: append([]string(nil), typeArgs...),
		proceed:  proceed,
	}
}

func (h *callHandle) Kind() xrx.Kind { return h.kind }

func (h *callHandle) TypeArgs() []string { return append([]string(nil), h.typeArgs...) }

func (h *callHandle) Site() CallSite { return h.site }

func (h *callHandle) Proceed() (xrx.Producer, error) {
	if h.proceed == nil {
		return nil, ErrNilProceed
	}
	if !h.called.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: %s", ErrDoubleProceed, h.site.Name())
	}
	p, err := h.proceed()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNilProducer
	}
	return p, nil
}

// SingleCall 为返回 Single[T] 的调用创建 CallHandle。
func SingleCall[T any](site CallSite, proceed func() xrx.Single[T]) CallHandle {
	return NewCallHandle(xrx.KindSingle, site, typeArgs[T](), adapt(proceed))
}

// MaybeCall 为返回 Maybe[T] 的调用创建 CallHandle。
func MaybeCall[T any](site CallSite, proceed func() xrx.Maybe[T]) CallHandle {
	return NewCallHandle(xrx.KindMaybe, site, typeArgs[T](), adapt(proceed))
}

// FlowableCall 为返回 Flowable[T] 的调用创建 CallHandle。
func FlowableCall[T any](site CallSite, proceed func() xrx.Flowable[T]) CallHandle {
	return NewCallHandle(xrx.KindFlowable, site, typeArgs[T](), adapt(proceed))
}

// CompletableCall 为返回 Completable 的调用创建 CallHandle。
func CompletableCall(site CallSite, proceed func() xrx.Completable) CallHandle {
	return NewCallHandle(xrx.KindCompletable, site, nil, adapt(proceed))
}

func typeArgs[T any]() []string {
	return []string{reflect.TypeFor[T]().String()}
}

func adapt[P xrx.Producer](proceed func() P) func() (xrx.Producer, error) {
	if proceed == nil {
		return nil
	}
	return func() (xrx.Producer, error) {
		return proceed(), nil
	}
}

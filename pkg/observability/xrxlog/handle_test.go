package xrxlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xrxtrace/pkg/reactive/xrx"
)

func TestCallSite(t *testing.T) {
	site := CallSite{
		Component: "Repo",
		Method:    "List",
		Params:    []Param{{Name: "limit", Value: 3}, {Name: "filter", Value: "active"}},
	}
	assert.Equal(t, "Repo.List", site.Name())
	assert.Equal(t, "Repo.List(limit=3, filter=active)", site.String())
	assert.Equal(t, "List(limit=3, filter=act…)", site.signature(3))

	bare := CallSite{Method: "ping"}
	assert.Equal(t, "ping", bare.Name())
	assert.Equal(t, "ping()", bare.String())

	nilParam := CallSite{Method: "Get", Params: []Param{{Name: "id", Value: nil}}}
	assert.Equal(t, "Get(id=null)", nilParam.String())
}

func TestCallHandle_ProceedOnce(t *testing.T) {
	calls := 0
	h := FlowableCall(CallSite{Component: "Repo", Method: "List"}, func() xrx.Flowable[int] {
		calls++
		return xrx.FromSlice(1, 2)
	})

	p, err := h.Proceed()
	require.NoError(t, err)
	assert.Equal(t, xrx.KindFlowable, p.Kind())

	_, err = h.Proceed()
	assert.ErrorIs(t, err, ErrDoubleProceed)
	assert.Equal(t, 1, calls, "underlying call runs at most once")
}

func TestCallHandle_ProceedErrors(t *testing.T) {
	site := CallSite{Method: "m"}

	_, err := NewCallHandle(xrx.KindSingle, site, nil, nil).Proceed()
	assert.ErrorIs(t, err, ErrNilProceed)

	_, err = SingleCall[int](site, nil).Proceed()
	assert.ErrorIs(t, err, ErrNilProceed)

	_, err = NewCallHandle(xrx.KindSingle, site, nil, func() (xrx.Producer, error) { return nil, nil }).Proceed()
	assert.ErrorIs(t, err, ErrNilProducer)

	boom := errors.New("boom")
	_, err = NewCallHandle(xrx.KindSingle, site, nil, func() (xrx.Producer, error) { return nil, boom }).Proceed()
	assert.ErrorIs(t, err, boom)
}

func TestTypedCallHandles(t *testing.T) {
	site := CallSite{Component: "Repo", Method: "Get"}
	type user struct{ Name string }

	tests := []struct {
		name     string
		h        CallHandle
		kind     xrx.Kind
		typeArgs []string
	}{
		{"single", SingleCall(site, func() xrx.Single[string] { return xrx.SingleJust("a") }), xrx.KindSingle, []string{"string"}},
		{"maybe", MaybeCall(site, func() xrx.Maybe[int] { return xrx.MaybeEmpty[int]() }), xrx.KindMaybe, []string{"int"}},
		{"flowable", FlowableCall(site, func() xrx.Flowable[user] { return xrx.FromSlice[user]() }), xrx.KindFlowable, []string{"xrxlog.user"}},
		{"completable", CompletableCall(site, xrx.Complete), xrx.KindCompletable, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.h.Kind())
			assert.Equal(t, tt.typeArgs, tt.h.TypeArgs())
			assert.Equal(t, site, tt.h.Site())

			p, err := tt.h.Proceed()
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind())
		})
	}
}

func TestCallHandle_TypeArgsCopied(t *testing.T) {
	args := []string{"int"}
	h := NewCallHandle(xrx.KindSingle, CallSite{}, args, nil)
	args[0] = "changed"
	got := h.TypeArgs()
	assert.Equal(t, []string{"int"}, got)
	got[0] = "mutated"
	assert.Equal(t, []string{"int"}, h.TypeArgs())
}

func TestCallHandle_SiteDetachedFromCaller(t *testing.T) {
	params := []Param{{Name: "limit", Value: 3}}
	h := SingleCall(CallSite{Component: "Repo", Method: "Get", Params: params}, func() xrx.Single[int] {
		return xrx.SingleJust(1)
	})
	params[0].Value = 999
	assert.Equal(t, "Repo.Get(limit=3)", h.Site().String())
}

package plugging

import (
	"testing"

	"github.com/GoCodeAlone/plugging/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlphaRegistry(t *testing.T) *Registry[Gateway] {
	t.Helper()
	opts := NewOptions()
	m, err := opts.AddModule("alpha")
	require.NoError(t, err)
	require.NoError(t, Register[Gateway](m, func(Container) (Gateway, error) {
		return &fooGateway{name: "alpha"}, nil
	}, WithUnsupportedOperations(gatewayOperations, opWrite)))

	p, err := NewServiceProvider(container.NewCollection().Build(), opts)
	require.NoError(t, err)
	reg, err := NewRegistry[Gateway](p, opts)
	require.NoError(t, err)
	return reg
}

func TestRegistry_AlphaScenario(t *testing.T) {
	reg := newAlphaRegistry(t)

	assert.True(t, reg.Supports("alpha", opRead))
	assert.False(t, reg.Supports("alpha", opWrite))

	gw, ok, err := reg.GetService("alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assert.IsType(t, &fooGateway{}, gw)

	gw, ok, err = reg.GetService("beta")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, gw)
}

func TestRegistry_Supports(t *testing.T) {
	reg := newAlphaRegistry(t)

	tests := []struct {
		name   string
		module string
		op     Operations
		want   bool
	}{
		{name: "no operation checks registration", module: "alpha", op: NoOperations, want: true},
		{name: "combined supported operations", module: "alpha", op: opRead | opDelete, want: true},
		{name: "any unsupported bit fails", module: "alpha", op: opRead | opWrite, want: false},
		{name: "case-insensitive module", module: "ALPHA", op: opRead, want: true},
		{name: "unknown module", module: "beta", op: opRead, want: false},
		{name: "unknown module without operation", module: "beta", op: NoOperations, want: false},
		{name: "empty module name", module: "", op: opRead, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Supports(tt.module, tt.op))
		})
	}
}

func TestRegistry_SupportsOnlyItsInterface(t *testing.T) {
	reg := newAlphaRegistry(t)
	ledgers, err := NewRegistry[Ledger](reg.provider, reg.options)
	require.NoError(t, err)

	assert.False(t, ledgers.Supports("alpha", NoOperations))
	_, ok, err := ledgers.GetService("alpha")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, ledgers.Modules())
	assert.Equal(t, []string{"alpha"}, reg.Modules())
}

func TestRegistry_EmptyNameIsAnError(t *testing.T) {
	reg := newAlphaRegistry(t)
	_, ok, err := reg.GetService("")
	require.ErrorIs(t, err, ErrModuleNameEmpty)
	assert.False(t, ok)
}

func TestNewRegistry_Validation(t *testing.T) {
	_, err := NewRegistry[Gateway](nil, NewOptions())
	require.ErrorIs(t, err, ErrProviderNil)

	p, err := NewServiceProvider(container.NewCollection().Build(), NewOptions())
	require.NoError(t, err)
	_, err = NewRegistry[Gateway](p, nil)
	require.ErrorIs(t, err, ErrOptionsNil)
}

func TestRegistryFor_RequiresPlugging(t *testing.T) {
	_, err := RegistryFor[Gateway](container.NewCollection().Build())
	require.ErrorIs(t, err, container.ErrServiceNotRegistered)
}

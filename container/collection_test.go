package container

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
)

func TestCollection_AddValidates(t *testing.T) {
	services := NewCollection()

	err := services.Add(Descriptor{Lifetime: LifetimeTransient, Constructor: func(Resolver) (any, error) { return nil, nil }})
	require.ErrorIs(t, err, ErrTypeNil)

	err = AddTransient[*fixedClock](services, nil)
	require.ErrorIs(t, err, ErrConstructorNil)

	err = services.Add(Descriptor{
		Type:        reflect.TypeFor[*fixedClock](),
		Lifetime:    "scoped",
		Constructor: func(Resolver) (any, error) { return nil, nil },
	})
	require.ErrorIs(t, err, ErrInvalidLifetime)
	assert.Equal(t, 0, services.Len())
}

func TestCollection_TryAddKeepsFirst(t *testing.T) {
	services := NewCollection()

	added, err := TryAddSingleton(services, func(Resolver) (*fixedClock, error) { return &fixedClock{at: 1}, nil })
	require.NoError(t, err)
	assert.True(t, added)

	added, err = TryAddSingleton(services, func(Resolver) (*fixedClock, error) { return &fixedClock{at: 2}, nil })
	require.NoError(t, err)
	assert.False(t, added)

	c, err := Resolve[*fixedClock](services.Build())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Now())
}

func TestCollection_AddReplaces(t *testing.T) {
	services := NewCollection()
	require.NoError(t, AddInstance(services, &fixedClock{at: 1}))
	require.NoError(t, AddInstance(services, &fixedClock{at: 2}))

	c, err := Resolve[*fixedClock](services.Build())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Now())
	assert.True(t, services.Contains(reflect.TypeFor[*fixedClock]()))
}

func TestCollection_DescriptorsSorted(t *testing.T) {
	services := NewCollection()
	require.NoError(t, AddInstance(services, &greeter{}))
	require.NoError(t, AddInstance(services, &fixedClock{}))

	ds := services.Descriptors()
	require.Len(t, ds, 2)
	assert.Equal(t, "*container.fixedClock", ds[0].Type.String())
	assert.Equal(t, "*container.greeter", ds[1].Type.String())
	assert.Equal(t, LifetimeSingleton, ds[0].Lifetime)
}

func TestParseLifetime(t *testing.T) {
	l, err := ParseLifetime("transient")
	require.NoError(t, err)
	assert.Equal(t, LifetimeTransient, l)

	_, err = ParseLifetime("forever")
	require.ErrorIs(t, err, ErrInvalidLifetime)
}

func TestDigContainer_Resolve(t *testing.T) {
	d := dig.New()
	require.NoError(t, d.Provide(func() *fixedClock { return &fixedClock{at: 9} }))
	require.NoError(t, d.Provide(func(c *fixedClock) clock { return c }))

	dc := NewDigContainer(d)
	c, err := Resolve[clock](dc)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Now())
	assert.Same(t, d, dc.Dig())

	_, err = Resolve[*greeter](dc)
	require.ErrorIs(t, err, ErrServiceNotRegistered)

	var nilContainer *DigContainer
	_, err = nilContainer.Resolve(reflect.TypeFor[clock]())
	require.ErrorIs(t, err, ErrDigContainerNil)
}

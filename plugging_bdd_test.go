package plugging

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/GoCodeAlone/plugging/container"
	"github.com/cucumber/godog"
)

// Static errors for plugging BDD tests
var (
	errRegistryNotBuilt       = errors.New("registry not built")
	errUnexpectedService      = errors.New("unexpected service")
	errUnexpectedSupport      = errors.New("unexpected support result")
	errRegistrationDidNotFail = errors.New("registration did not fail")
	errUnexpectedRegistration = errors.New("unexpected registration error")
)

// PluggingBDDTestContext holds the state of a plugging scenario
type PluggingBDDTestContext struct {
	services *container.Collection
	builder  *Builder
	modules  map[string]*ModuleBuilder
	registry *Registry[Gateway]
	lastErr  error
}

func (ctx *PluggingBDDTestContext) iHaveAPluggingBuilder() error {
	ctx.services = container.NewCollection()
	ctx.modules = make(map[string]*ModuleBuilder)
	b, err := NewBuilder(ctx.services)
	if err != nil {
		return err
	}
	ctx.builder = b
	return nil
}

func (ctx *PluggingBDDTestContext) module(name string) (*ModuleBuilder, error) {
	if mb, ok := ctx.modules[name]; ok {
		return mb, nil
	}
	mb, err := ctx.builder.AddModule(name)
	if err != nil {
		return nil, err
	}
	ctx.modules[name] = mb
	return mb, nil
}

func (ctx *PluggingBDDTestContext) register(moduleName, gatewayName string, opts ...ServiceOption) error {
	mb, err := ctx.module(moduleName)
	if err != nil {
		return err
	}
	return Register[Gateway](mb.Module(), func(Container) (Gateway, error) {
		return &fooGateway{name: gatewayName}, nil
	}, opts...)
}

func (ctx *PluggingBDDTestContext) moduleRegistersAGatewayNamed(moduleName, gatewayName string) error {
	return ctx.register(moduleName, gatewayName)
}

func (ctx *PluggingBDDTestContext) moduleRegistersAGatewayNamedWithoutOperations(moduleName, gatewayName, ops string) error {
	unsupported, err := gatewayOperations.Parse(strings.Split(ops, "|")...)
	if err != nil {
		return err
	}
	return ctx.register(moduleName, gatewayName, WithUnsupportedOperations(gatewayOperations, unsupported))
}

func (ctx *PluggingBDDTestContext) moduleRegistersAGatewayNamedAgain(moduleName, gatewayName string) error {
	ctx.lastErr = ctx.register(moduleName, gatewayName)
	return nil
}

func (ctx *PluggingBDDTestContext) moduleDecoratesTheGatewayWithTag(moduleName, tag string) error {
	mb, err := ctx.module(moduleName)
	if err != nil {
		return err
	}
	return DecorateService(mb, func(inner Gateway, _ Container) (Gateway, error) {
		return &tracingGateway{inner: inner, tag: tag}, nil
	})
}

func (ctx *PluggingBDDTestContext) iAddPluggingAndBuildTheRegistry() error {
	if err := ctx.builder.AddPlugging(); err != nil {
		return err
	}
	reg, err := RegistryFor[Gateway](ctx.services.Build())
	if err != nil {
		return err
	}
	ctx.registry = reg
	return nil
}

func (ctx *PluggingBDDTestContext) resolvingTheGatewayForShouldReturn(moduleName, want string) error {
	if ctx.registry == nil {
		return errRegistryNotBuilt
	}
	gw, ok, err := ctx.registry.GetService(moduleName)
	if err != nil {
		return err
	}
	if !ok || gw.Name() != want {
		return fmt.Errorf("%w: module %q resolved %v (present=%t), want %q", errUnexpectedService, moduleName, gw, ok, want)
	}
	return nil
}

func (ctx *PluggingBDDTestContext) resolvingTheGatewayForShouldReturnNothing(moduleName string) error {
	if ctx.registry == nil {
		return errRegistryNotBuilt
	}
	gw, ok, err := ctx.registry.GetService(moduleName)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: module %q resolved %v", errUnexpectedService, moduleName, gw)
	}
	return nil
}

func (ctx *PluggingBDDTestContext) checkSupport(moduleName, ops string, want bool) error {
	if ctx.registry == nil {
		return errRegistryNotBuilt
	}
	op, err := gatewayOperations.Parse(strings.Split(ops, "|")...)
	if err != nil {
		return err
	}
	if got := ctx.registry.Supports(moduleName, op); got != want {
		return fmt.Errorf("%w: supports(%q, %s) = %t", errUnexpectedSupport, moduleName, ops, got)
	}
	return nil
}

func (ctx *PluggingBDDTestContext) moduleShouldSupport(moduleName, ops string) error {
	return ctx.checkSupport(moduleName, ops, true)
}

func (ctx *PluggingBDDTestContext) moduleShouldNotSupport(moduleName, ops string) error {
	return ctx.checkSupport(moduleName, ops, false)
}

func (ctx *PluggingBDDTestContext) theRegistrationShouldFailBecauseTheServiceIsAlreadyRegistered() error {
	if ctx.lastErr == nil {
		return errRegistrationDidNotFail
	}
	if !errors.Is(ctx.lastErr, ErrServiceAlreadyRegistered) {
		return fmt.Errorf("%w: %w", errUnexpectedRegistration, ctx.lastErr)
	}
	return nil
}

// InitializePluggingScenario wires the plugging step definitions
func InitializePluggingScenario(ctx *godog.ScenarioContext) {
	testCtx := &PluggingBDDTestContext{}

	ctx.Step(`^I have a plugging builder$`, testCtx.iHaveAPluggingBuilder)

	ctx.Step(`^module "([^"]*)" registers a gateway named "([^"]*)"$`, testCtx.moduleRegistersAGatewayNamed)
	ctx.Step(`^module "([^"]*)" registers a gateway named "([^"]*)" without operations "([^"]*)"$`, testCtx.moduleRegistersAGatewayNamedWithoutOperations)
	ctx.Step(`^module "([^"]*)" registers a gateway named "([^"]*)" again$`, testCtx.moduleRegistersAGatewayNamedAgain)
	ctx.Step(`^module "([^"]*)" decorates the gateway with tag "([^"]*)"$`, testCtx.moduleDecoratesTheGatewayWithTag)
	ctx.Step(`^I add plugging and build the registry$`, testCtx.iAddPluggingAndBuildTheRegistry)

	ctx.Step(`^resolving the gateway for "([^"]*)" should return "([^"]*)"$`, testCtx.resolvingTheGatewayForShouldReturn)
	ctx.Step(`^resolving the gateway for "([^"]*)" should return nothing$`, testCtx.resolvingTheGatewayForShouldReturnNothing)
	ctx.Step(`^module "([^"]*)" should support "([^"]*)"$`, testCtx.moduleShouldSupport)
	ctx.Step(`^module "([^"]*)" should not support "([^"]*)"$`, testCtx.moduleShouldNotSupport)
	ctx.Step(`^the registration should fail because the service is already registered$`, testCtx.theRegistrationShouldFailBecauseTheServiceIsAlreadyRegistered)
}

// TestPluggingFeatures runs the BDD scenarios of the registry
func TestPluggingFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializePluggingScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/plugging.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

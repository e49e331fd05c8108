package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bareRunner struct{ out string }

func (b bareRunner) Run() (string, error) { return b.out, nil }

type argsRunner struct{}

func (argsRunner) RunArgs(args []string) (string, error) {
	return "args:" + strings.Join(args, ","), nil
}

type contextRunner struct{ sawCtx bool }

func (c *contextRunner) RunContext(ctx context.Context, args []string) (string, error) {
	c.sawCtx = ctx != nil
	return "ctx:" + strings.Join(args, ","), nil
}

// everyShape satisfies all three interfaces; the richest must win.
type everyShape struct{}

func (everyShape) Run() (string, error)                              { return "bare", nil }
func (everyShape) RunArgs([]string) (string, error)                  { return "args", nil }
func (everyShape) RunContext(context.Context, []string) (string, error) { return "context", nil }

type printingRunner struct{ direct string }

func (p printingRunner) Run() (string, error) {
	fmt.Println("printed line")
	return p.direct, nil
}

type failingRunner struct{}

func (failingRunner) Run() (string, error) { return "", errors.New("plugin exploded") }

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Plugin{Name: "a", Impl: bareRunner{}}))

	err := r.Register(&Plugin{Name: "a", Impl: bareRunner{}})
	assert.ErrorIs(t, err, ErrPluginAlreadyRegistered)
}

func TestRegistryRejectsInvalidPlugin(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(&Plugin{Name: "", Impl: bareRunner{}}))
	assert.Error(t, r.Register(&Plugin{Name: "x", Impl: struct{}{}}))
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Plugin{Name: "zeta", Impl: bareRunner{}})
	r.MustRegister(&Plugin{Name: "alpha", Impl: bareRunner{}})

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

func TestInvokeArityLadder(t *testing.T) {
	r := NewRegistry()
	ctxRunner := &contextRunner{}
	r.MustRegister(&Plugin{Name: "bare", Impl: bareRunner{out: "hi"}})
	r.MustRegister(&Plugin{Name: "args", Impl: argsRunner{}})
	r.MustRegister(&Plugin{Name: "ctx", Impl: ctxRunner})
	r.MustRegister(&Plugin{Name: "every", Impl: everyShape{}})

	out, err := r.Invoke(context.Background(), "bare", []string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	out, err = r.Invoke(context.Background(), "args", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "args:a,b", out)

	out, err = r.Invoke(context.Background(), "ctx", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, "ctx:x", out)
	assert.True(t, ctxRunner.sawCtx)

	out, err = r.Invoke(context.Background(), "every", nil)
	require.NoError(t, err)
	assert.Equal(t, "context", out)
}

func TestInvokeCapturesPrintedOutput(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Plugin{Name: "printer", Impl: printingRunner{direct: "returned"}})

	out, err := r.Invoke(context.Background(), "printer", nil)
	require.NoError(t, err)
	assert.Equal(t, "printed line\nreturned", out)
}

func TestInvokeCapturesPrintOnlyPlugin(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Plugin{Name: "printer", Impl: printingRunner{}})

	out, err := r.Invoke(context.Background(), "printer", nil)
	require.NoError(t, err)
	assert.Equal(t, "printed line", out)
}

func TestInvokeUnknownPlugin(t *testing.T) {
	r := NewRegistry()
	_, err := r.Invoke(context.Background(), "ghost", nil)
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestInvokeErrorPropagates(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Plugin{Name: "boom", Impl: failingRunner{}})

	_, err := r.Invoke(context.Background(), "boom", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugin exploded")
}

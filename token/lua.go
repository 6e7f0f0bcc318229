package token

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var protoCache sync.Map

// LuaEngine runs an operator-supplied Lua script in place of the upstream bundle.
// The script must define a global Token(episode_id, uid, app_version, platform_version, app_name)
// returning a string. Only the base, string, table and math libraries are opened.
type LuaEngine struct {
	path    string
	timeout time.Duration
}

// NewLuaEngine returns an engine for the script at path.
func NewLuaEngine(path string, timeout time.Duration) *LuaEngine {
	return &LuaEngine{path: path, timeout: timeout}
}

// Path returns the script location.
func (e *LuaEngine) Path() string {
	return e.path
}

// Eval loads the script and calls Token with the arguments of call.
func (e *LuaEngine) Eval(ctx context.Context, call Call) (string, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	L.SetContext(ctx)

	if err := e.load(L); err != nil {
		return "", e.wrap(ctx, err)
	}

	fn := L.GetGlobal(constant.LuaTokenFn)
	if fn.Type() != lua.LTFunction {
		return "", fmt.Errorf("%w: %s", ErrNoFunction, constant.LuaTokenFn)
	}

	err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, call.luaArgs()...)
	if err != nil {
		return "", e.wrap(ctx, err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	switch ret.Type() {
	case lua.LTNil:
		return "", nil
	case lua.LTString, lua.LTNumber:
		return ret.String(), nil
	default:
		return "", fmt.Errorf("%s returned %s, expected string", constant.LuaTokenFn, ret.Type())
	}
}

func (e *LuaEngine) load(L *lua.LState) error {
	if cached, ok := protoCache.Load(e.path); ok {
		L.Push(L.NewFunctionFromProto(cached.(*lua.FunctionProto)))
		return L.PCall(0, lua.MultRet, nil)
	}

	source, err := filesystem.ReadText(e.path)
	if err != nil {
		return err
	}

	chunk, err := parse.Parse(strings.NewReader(source), e.path)
	if err != nil {
		return err
	}

	proto, err := lua.Compile(chunk, e.path)
	if err != nil {
		return err
	}

	protoCache.Store(e.path, proto)

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

func (e *LuaEngine) wrap(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}

	return fmt.Errorf("override script %s: %w", e.path, err)
}

func openSafeLibs(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// base opens file loaders; the sandbox has no filesystem.
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
}

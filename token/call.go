package token

import (
	"strconv"

	"github.com/dop251/goja"
	"github.com/kissbridge/kissbridge/constant"
	lua "github.com/yuin/gopher-lua"
)

// Call is one token request. The positional argument list handed to the upstream
// function is fixed; see jsArgs.
type Call struct {
	EpisodeID string
	UID       string
}

// jsArgs builds (episodeId, null, appVersion, uid, platformVersion, appName x6).
// The episode id is passed as a number when it looks like one, the same way the web player does.
func (c Call) jsArgs(vm *goja.Runtime) []goja.Value {
	var episode goja.Value
	if n, err := strconv.ParseInt(c.EpisodeID, 10, 64); err == nil {
		episode = vm.ToValue(n)
	} else {
		episode = vm.ToValue(c.EpisodeID)
	}

	args := []goja.Value{
		episode,
		goja.Null(),
		vm.ToValue(constant.TokenAppVersion),
		vm.ToValue(c.UID),
		vm.ToValue(constant.TokenPlatformVersion),
	}
	for range 6 {
		args = append(args, vm.ToValue(constant.TokenAppName))
	}

	return args
}

// luaArgs builds (episode_id, uid, app_version, platform_version, app_name) for override scripts.
func (c Call) luaArgs() []lua.LValue {
	return []lua.LValue{
		lua.LString(c.EpisodeID),
		lua.LString(c.UID),
		lua.LString(constant.TokenAppVersion),
		lua.LNumber(constant.TokenPlatformVersion),
		lua.LString(constant.TokenAppName),
	}
}

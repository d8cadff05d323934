package sysinfo

import (
	"context"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// HostInfoFunc returns platform facts about the host
type HostInfoFunc func(ctx context.Context) (*host.InfoStat, error)

// Locale is a POSIX locale split into its parts, e.g. en_US.UTF-8@euro
type Locale struct {
	Language string
	Country  string
	Encoding string
}

// ParseLocale splits a locale name. "C" and "POSIX" carry no language.
func ParseLocale(name string) Locale {
	var l Locale
	if idx := strings.Index(name, "@"); idx != -1 {
		name = name[:idx]
	}
	if idx := strings.Index(name, "."); idx != -1 {
		l.Encoding = name[idx+1:]
		name = name[:idx]
	}
	if name == "C" || name == "POSIX" {
		return l
	}
	lang, country, _ := strings.Cut(name, "_")
	l.Language = lang
	l.Country = country
	return l
}

// CurrentLocale resolves the effective locale the way libc does:
// LC_ALL wins over LC_CTYPE, which wins over LANG.
func CurrentLocale(env Env) Locale {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := Get(env, key); v != "" {
			return ParseLocale(v)
		}
	}
	return Locale{}
}

// Properties returns the fixed list of runtime and platform properties.
// hostInfo may be nil, in which case gopsutil is queried directly.
func Properties(ctx context.Context, env Env, hostInfo HostInfoFunc) []KV {
	if hostInfo == nil {
		hostInfo = host.InfoWithContext
	}

	var platform, platformVersion, kernel, virt string
	if info, err := hostInfo(ctx); err == nil && info != nil {
		platform = info.Platform
		platformVersion = info.PlatformVersion
		kernel = info.KernelVersion
		virt = info.VirtualizationSystem
		if virt != "" && info.VirtualizationRole != "" {
			virt += " (" + info.VirtualizationRole + ")"
		}
	}

	locale := CurrentLocale(env)

	props := []struct {
		key, value string
	}{
		{"go.version", runtime.Version()},
		{"go.compiler", runtime.Compiler},
		{"os.name", runtime.GOOS},
		{"os.arch", runtime.GOARCH},
		{"os.version", kernel},
		{"os.platform", platform},
		{"os.platform.version", platformVersion},
		{"host.virtualization", virt},
		{"file.encoding", locale.Encoding},
		{"user.language", locale.Language},
		{"user.country", locale.Country},
		{"num.cpu", strconv.Itoa(runtime.NumCPU())},
	}

	out := make([]KV, 0, len(props))
	for _, p := range props {
		kv := KV{Key: p.key, Value: p.value, Set: p.value != ""}
		if !kv.Set {
			kv.Value = NotSet
		}
		out = append(out, kv)
	}
	return out
}

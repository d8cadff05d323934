package sysinfo

import "os"

// Env looks up environment variables
type Env interface {
	Lookup(key string) (string, bool)
}

// OSEnv reads the environment of the current process
type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is a fixed environment, mostly useful in tests
type MapEnv map[string]string

func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Get returns the value of key or "" when it is not set
func Get(env Env, key string) string {
	v, _ := env.Lookup(key)
	return v
}

// Lookup resolves every name against env in order.
// Absent variables get NotSet; a variable set to "" stays empty.
func Lookup(env Env, names []string) []KV {
	out := make([]KV, 0, len(names))
	for _, name := range names {
		v, ok := env.Lookup(name)
		if !ok {
			v = NotSet
		}
		out = append(out, KV{Key: name, Value: v, Set: ok})
	}
	return out
}

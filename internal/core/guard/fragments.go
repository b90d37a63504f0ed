package guard

import (
	"github.com/example/guardgen/internal/core/patch"
	"github.com/example/guardgen/internal/scaffold"
)

// GuardEntry is the guards-region entry for a guard.
func GuardEntry(ids scaffold.Identifiers) patch.Fragment {
	return patch.Fragment{
		Key: ids.LowerKey,
		Value: "[\n" +
			"    'driver' => 'session',\n" +
			"    'provider' => '" + ids.ProviderKey + "',\n" +
			"]",
	}
}

// ProviderEntry is the providers-region entry backing a guard.
func ProviderEntry(ids scaffold.Identifiers, ns scaffold.Namespaces) patch.Fragment {
	return patch.Fragment{
		Key: ids.ProviderKey,
		Value: "[\n" +
			"    'driver' => 'eloquent',\n" +
			"    'model' => " + ns.ModelClass(ids) + "::class,\n" +
			"]",
	}
}

// AliasEntry is the route middleware alias for a guard.
func AliasEntry(ids scaffold.Identifiers, ns scaffold.Namespaces) patch.Fragment {
	return patch.Fragment{
		Key:   ids.AliasKey,
		Value: `\` + ns.MiddlewareClass(ids) + "::class",
	}
}

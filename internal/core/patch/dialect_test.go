package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const httpKernel = `<?php

namespace App\Http;

use Illuminate\Foundation\Http\Kernel as HttpKernel;

class Kernel extends HttpKernel
{
    protected $middleware = [
        \App\Http\Middleware\TrustProxies::class,
    ];

    protected $middlewareAliases = [
        'auth' => \App\Http\Middleware\Authenticate::class,
        'guest' => \App\Http\Middleware\RedirectIfAuthenticated::class,
    ];
}
`

const bootstrapApp = `<?php

use Illuminate\Foundation\Application;
use Illuminate\Foundation\Configuration\Exceptions;
use Illuminate\Foundation\Configuration\Middleware;

return Application::configure(basePath: dirname(__DIR__))
    ->withRouting(
        web: __DIR__.'/../routes/web.php',
        commands: __DIR__.'/../routes/console.php',
        health: '/up',
    )
    ->withMiddleware(function (Middleware $middleware) {
        //
    })
    ->withExceptions(function (Exceptions $exceptions) {
        //
    })->create();
`

func aliasFragment(name, class string) Fragment {
	return Fragment{Key: name + ".auth", Value: `\App\Http\Middleware\` + class + "::class"}
}

func TestSelectDialect(t *testing.T) {
	tests := []struct {
		version string
		want    DialectKind
	}{
		{"10.9.0", DialectKernel},
		{"9.52.16", DialectKernel},
		{"10", DialectKernel},
		{"v10.48.2", DialectKernel},
		{"11.0.0", DialectBootstrap},
		{"11.2.3", DialectBootstrap},
		{"v11.31.0", DialectBootstrap},
		{"12.0", DialectBootstrap},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			d, err := SelectDialect(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Kind())
		})
	}
}

func TestSelectDialectRejectsUnparseableVersion(t *testing.T) {
	for _, version := range []string{"", "   ", "latest", "11.x-dev", "eleven"} {
		t.Run(version, func(t *testing.T) {
			_, err := SelectDialect(version)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDialectMismatch)

			var mismatch *DialectMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, version, mismatch.Version)
		})
	}
}

func TestCanonicalVersion(t *testing.T) {
	v, err := CanonicalVersion("V11.2")
	require.NoError(t, err)
	assert.Equal(t, "v11.2.0", v)
}

func TestKernelRegisterAlias(t *testing.T) {
	res, err := KernelDialect{}.RegisterAlias(httpKernel, aliasFragment("admin", "AdminAuthMiddleware"))
	require.NoError(t, err)
	assert.Equal(t, Inserted, res.Outcome)
	assert.Contains(t, res.Text,
		"        'guest' => \\App\\Http\\Middleware\\RedirectIfAuthenticated::class,\n"+
			"        'admin.auth' => \\App\\Http\\Middleware\\AdminAuthMiddleware::class,\n"+
			"    ];\n}\n")
	// The global stack is left alone.
	assert.Contains(t, res.Text, "        \\App\\Http\\Middleware\\TrustProxies::class,\n    ];\n\n")
}

func TestKernelRegisterAliasLegacyProperty(t *testing.T) {
	src := strings.Replace(httpKernel, "$middlewareAliases", "$routeMiddleware", 1)

	res, err := KernelDialect{}.RegisterAlias(src, aliasFragment("admin", "AdminAuthMiddleware"))
	require.NoError(t, err)
	assert.Contains(t, res.Text, "protected $routeMiddleware = [")
	assert.Contains(t, res.Text, "'admin.auth' => \\App\\Http\\Middleware\\AdminAuthMiddleware::class,\n    ];")
}

func TestKernelRegisterAliasWithoutAliasMap(t *testing.T) {
	src := "<?php\nclass Kernel\n{\n    protected $middleware = [];\n}\n"

	_, err := KernelDialect{}.RegisterAlias(src, aliasFragment("admin", "AdminAuthMiddleware"))
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestBootstrapRegisterAliasReplacesPlaceholder(t *testing.T) {
	res, err := BootstrapDialect{}.RegisterAlias(bootstrapApp, aliasFragment("admin", "AdminAuthMiddleware"))
	require.NoError(t, err)
	assert.Equal(t, Inserted, res.Outcome)

	want := `    ->withMiddleware(function (Middleware $middleware) {
        $middleware->alias([
            'admin.auth' => \App\Http\Middleware\AdminAuthMiddleware::class,
        ]);
    })
    ->withExceptions(function (Exceptions $exceptions) {
        //
    })->create();
`
	assert.True(t, strings.HasSuffix(res.Text, want), "got:\n%s", res.Text)
}

func TestBootstrapRegisterAliasExtendsExistingCall(t *testing.T) {
	first, err := BootstrapDialect{}.RegisterAlias(bootstrapApp, aliasFragment("admin", "AdminAuthMiddleware"))
	require.NoError(t, err)
	second, err := BootstrapDialect{}.RegisterAlias(first.Text, aliasFragment("customer", "CustomerAuthMiddleware"))
	require.NoError(t, err)

	text := second.Text
	assert.Equal(t, 1, strings.Count(text, "->withMiddleware("))
	assert.Equal(t, 1, strings.Count(text, "->alias("))
	assert.Contains(t, text,
		"            'admin.auth' => \\App\\Http\\Middleware\\AdminAuthMiddleware::class,\n"+
			"            'customer.auth' => \\App\\Http\\Middleware\\CustomerAuthMiddleware::class,\n"+
			"        ]);\n")

	again, err := BootstrapDialect{}.RegisterAlias(text, aliasFragment("customer", "CustomerAuthMiddleware"))
	require.NoError(t, err)
	assert.Equal(t, Unchanged, again.Outcome)
	assert.Equal(t, text, again.Text)
}

func TestBootstrapRegisterAliasKeepsExistingStatements(t *testing.T) {
	src := strings.Replace(bootstrapApp,
		"    ->withMiddleware(function (Middleware $middleware) {\n        //\n    })",
		"    ->withMiddleware(function (Middleware $mw) {\n        $mw->validateCsrfTokens(except: ['stripe/*']);\n    })", 1)

	res, err := BootstrapDialect{}.RegisterAlias(src, aliasFragment("admin", "AdminAuthMiddleware"))
	require.NoError(t, err)
	assert.Contains(t, res.Text, `    ->withMiddleware(function (Middleware $mw) {
        $mw->validateCsrfTokens(except: ['stripe/*']);
        $mw->alias([
            'admin.auth' => \App\Http\Middleware\AdminAuthMiddleware::class,
        ]);
    })
`)
	// The closure's type hint already needs the import; it is left as is.
	assert.Equal(t, 1, strings.Count(res.Text, "use Illuminate\\Foundation\\Configuration\\Middleware;"))
	assert.True(t, strings.HasPrefix(res.Text, src[:strings.Index(src, "return ")]), "imports must be untouched")
}

func TestBootstrapRegisterAliasExistingCallAddsNoImport(t *testing.T) {
	src := strings.Replace(bootstrapApp, "use Illuminate\\Foundation\\Configuration\\Middleware;\n", "", 1)

	res, err := BootstrapDialect{}.RegisterAlias(src, aliasFragment("admin", "AdminAuthMiddleware"))
	require.NoError(t, err)
	assert.Equal(t, Inserted, res.Outcome)
	assert.NotContains(t, res.Text, "use Illuminate\\Foundation\\Configuration\\Middleware;")
}

func TestBootstrapRegisterAliasAddsMiddlewareCall(t *testing.T) {
	src := `<?php

use Illuminate\Foundation\Application;

return Application::configure(basePath: dirname(__DIR__))
    ->withRouting(
        web: __DIR__.'/../routes/web.php',
    )
    ->create();
`
	res, err := BootstrapDialect{}.RegisterAlias(src, aliasFragment("admin", "AdminAuthMiddleware"))
	require.NoError(t, err)

	assert.Contains(t, res.Text, "use Illuminate\\Foundation\\Application;\nuse Illuminate\\Foundation\\Configuration\\Middleware;\n")
	assert.Contains(t, res.Text, `    )
    ->withMiddleware(function (Middleware $middleware) {
        $middleware->alias([
            'admin.auth' => \App\Http\Middleware\AdminAuthMiddleware::class,
        ]);
    })
    ->create();
`)

	// A second guard goes into the call that was just added.
	again, err := BootstrapDialect{}.RegisterAlias(res.Text, aliasFragment("customer", "CustomerAuthMiddleware"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(again.Text, "->withMiddleware("))
	assert.Equal(t, 1, strings.Count(again.Text, "use Illuminate\\Foundation\\Configuration\\Middleware;"))
}

func TestBootstrapRegisterAliasWithoutCreate(t *testing.T) {
	src := "<?php\n\nreturn Application::configure(basePath: dirname(__DIR__));\n"

	_, err := BootstrapDialect{}.RegisterAlias(src, aliasFragment("admin", "AdminAuthMiddleware"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestEnsureImport(t *testing.T) {
	t.Run("already imported", func(t *testing.T) {
		src := "<?php\n\nuse \\Illuminate\\Foundation\\Configuration\\Middleware;\n"
		assert.Equal(t, src, ensureImport(src, middlewareImport))
	})
	t.Run("no imports", func(t *testing.T) {
		got := ensureImport("<?php\n\nreturn 1;\n", middlewareImport)
		assert.Equal(t, "<?php\n\nuse Illuminate\\Foundation\\Configuration\\Middleware;\n\nreturn 1;\n", got)
	})
}

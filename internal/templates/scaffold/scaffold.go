// Package scaffold provides templates for guard code generation.
package scaffold

import (
	"embed"
)

//go:embed guard/*.tmpl
var scaffoldTemplates embed.FS

// GetGuardTemplate returns the content of a guard template.
func GetGuardTemplate(name string) (string, error) {
	content, err := scaffoldTemplates.ReadFile("guard/" + name + ".tmpl")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

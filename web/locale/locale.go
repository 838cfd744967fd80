// Package locale loads the message bundles and attaches a per-request
// localizer to the gin context.
package locale

import (
	"io/fs"
	"strings"

	"github.com/drinkrate/drinkrate/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

var i18nBundle *i18n.Bundle

// I18nFunc localizes key. Params have the form "name==value".
type I18nFunc func(key string, params ...string) string

// InitLocalizer parses every file under translation/ in i18nFS. The default
// language is en-US.
func InitLocalizer(i18nFS fs.FS) error {
	bundle := i18n.NewBundle(language.MustParse("en-US"))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(i18nFS, bundle); err != nil {
		return err
	}
	i18nBundle = bundle
	return nil
}

func createTemplateData(params []string, seperator ...string) map[string]any {
	var sep string = "=="
	if len(seperator) > 0 {
		sep = seperator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

// NewI18n returns a localizing function for the given languages, most
// preferred first.
func NewI18n(langs ...string) I18nFunc {
	if i18nBundle == nil {
		return func(key string, _ ...string) string { return key }
	}
	localizer := i18n.NewLocalizer(i18nBundle, langs...)
	return func(key string, params ...string) string {
		msg, err := localizer.Localize(&i18n.LocalizeConfig{
			MessageID:    key,
			TemplateData: createTemplateData(params),
		})
		if err != nil {
			logger.Errorf("Failed to localize message %q: %v", key, err)
			return key
		}
		return msg
	}
}

// LocalizerMiddleware picks the language from the lang cookie, falling back
// to the Accept-Language header.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		c.Set("I18n", NewI18n(lang))
		c.Next()
	}
}

// I18n localizes key with the function stored on the request, or with the
// default language when the middleware did not run.
func I18n(c *gin.Context, key string, params ...string) string {
	if v, ok := c.Get("I18n"); ok {
		if f, ok := v.(I18nFunc); ok {
			return f(key, params...)
		}
	}
	logger.Warning("I18n function not exists in gin context!")
	return NewI18n()(key, params...)
}

func parseTranslationFiles(i18nFS fs.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			data, err := fs.ReadFile(i18nFS, path)
			if err != nil {
				return err
			}

			_, err = bundle.ParseMessageFileBytes(data, path)
			return err
		})
}

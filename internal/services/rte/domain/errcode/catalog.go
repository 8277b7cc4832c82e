package errcode

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every catalog must define in full.
const BaseLocale = "en-US"

var baseTag = language.MustParse(BaseLocale)

type catalogFile struct {
	Locale   string                  `yaml:"locale"`
	Version  string                  `yaml:"version"`
	Messages map[string]catalogEntry `yaml:"messages"`
}

type catalogEntry struct {
	Short  string `yaml:"short"`
	Detail string `yaml:"detail"`
}

// Message is the short and detailed text for one numeric code.
type Message struct {
	Short  string
	Detail string
}

// Catalog holds error messages for every supported version and locale.
type Catalog struct {
	builder *catalog.Builder
	keys    map[string]map[string]struct{}
	codes   map[scorm.Version][]int
}

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultCatalog = mustLoadEmbedded()

// DefaultCatalog returns the process-wide embedded catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// LoadEmbedded loads the catalog files embedded in this package.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads catalog files laid out as locales/<locale>/<namespace>.yaml.
func LoadFromFS(catalogFS fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob error catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no error catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(baseTag)),
		keys:    map[string]map[string]struct{}{},
		codes:   map[scorm.Version][]int{},
	}
	for _, path := range paths {
		data, err := fs.ReadFile(catalogFS, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := c.addFile(path, file); err != nil {
			return nil, err
		}
	}

	for _, v := range []scorm.Version{scorm.Version12, scorm.Version2004} {
		if len(c.codes[v]) == 0 {
			return nil, fmt.Errorf("base locale %s does not define scorm %s messages", BaseLocale, v)
		}
	}
	return c, nil
}

func (c *Catalog) addFile(path string, file catalogFile) error {
	localeFromPath := filepath.Base(filepath.Dir(path))
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", path)
	}
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", path, locale, localeFromPath)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale %q: %w", path, locale, err)
	}

	version, err := scorm.ParseVersion(file.Version)
	if err != nil || strings.TrimSpace(file.Version) == "" {
		return fmt.Errorf("catalog %s: invalid version %q", path, file.Version)
	}
	namespace := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if namespace != namespaceFor(version) {
		return fmt.Errorf("catalog %s: version %s must live in %s.yaml", path, version, namespaceFor(version))
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", path)
	}

	keys, ok := c.keys[tag.String()]
	if !ok {
		keys = map[string]struct{}{}
		c.keys[tag.String()] = keys
	}
	isBase := tag == baseTag
	for rawCode, entry := range file.Messages {
		code, err := strconv.Atoi(strings.TrimSpace(rawCode))
		if err != nil {
			return fmt.Errorf("catalog %s: code %q is not numeric", path, rawCode)
		}
		if isBase && (entry.Short == "" || entry.Detail == "") {
			return fmt.Errorf("catalog %s: code %d needs short and detail text in base locale", path, code)
		}
		if entry.Short != "" {
			key := messageKey(version, code, "short")
			if err := c.builder.SetString(tag, key, entry.Short); err != nil {
				return fmt.Errorf("catalog %s: register %s: %w", path, key, err)
			}
			keys[key] = struct{}{}
		}
		if entry.Detail != "" {
			key := messageKey(version, code, "detail")
			if err := c.builder.SetString(tag, key, entry.Detail); err != nil {
				return fmt.Errorf("catalog %s: register %s: %w", path, key, err)
			}
			keys[key] = struct{}{}
		}
		if isBase {
			c.codes[version] = append(c.codes[version], code)
		}
	}
	sort.Ints(c.codes[version])
	return nil
}

// Locales returns the locales present in the catalog.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.keys))
	for locale := range c.keys {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Codes returns the numeric codes defined for version, ascending.
func (c *Catalog) Codes(v scorm.Version) []int {
	return append([]int(nil), c.codes[v]...)
}

// Messages renders every code of a version in the requested locale. Text the
// locale does not translate falls back to the base locale.
func (c *Catalog) Messages(v scorm.Version, locale string) map[int]Message {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = baseTag
	}
	localized := message.NewPrinter(tag, message.Catalog(c.builder))
	base := message.NewPrinter(baseTag, message.Catalog(c.builder))

	render := func(key string) string {
		if _, ok := c.keys[tag.String()][key]; ok {
			return localized.Sprintf(key)
		}
		return base.Sprintf(key)
	}

	out := make(map[int]Message, len(c.codes[v]))
	for _, code := range c.codes[v] {
		out[code] = Message{
			Short:  render(messageKey(v, code, "short")),
			Detail: render(messageKey(v, code, "detail")),
		}
	}
	return out
}

func namespaceFor(v scorm.Version) string {
	if v == scorm.Version12 {
		return "scorm12"
	}
	return "scorm2004"
}

func messageKey(v scorm.Version, code int, field string) string {
	return namespaceFor(v) + "." + strconv.Itoa(code) + "." + field
}

func mustLoadEmbedded() *Catalog {
	c, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return c
}

package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/star/snwatch/internal/visibility"
)

// Profile file names inside the config directory.
const (
	SitesFile   = "sites.json"
	WindowsFile = "visibility_windows.json"
	IgnoreFile  = "old_supernovae.txt"
)

// DefaultWindow is the preset written by Bootstrap.
const DefaultWindow = "Default"

// Profile is an immutable snapshot of the observer's presets. It is loaded
// once and passed to whoever builds selection criteria.
type Profile struct {
	Dir     string
	Sites   []visibility.Site
	Windows map[string]visibility.Bounds
	Ignore  []string
}

// DefaultSites are used when sites.json is missing or unreadable.
func DefaultSites() []visibility.Site {
	return []visibility.Site{
		{Name: "Sabadell", Latitude: 41.55, Longitude: 2.09, Height: 224},
		{Name: "Sant Quirze", Latitude: 41.32, Longitude: 2.04, Height: 196},
		{Name: "Requena", Latitude: 39.45, Longitude: -1.21, Height: 587},
	}
}

// DefaultWindows are used when visibility_windows.json is missing.
func DefaultWindows() map[string]visibility.Bounds {
	return map[string]visibility.Bounds{DefaultWindow: visibility.DefaultBounds()}
}

// Site returns the site called name.
func (p *Profile) Site(name string) (visibility.Site, bool) {
	for _, s := range p.Sites {
		if s.Name == name {
			return s, true
		}
	}
	return visibility.Site{}, false
}

// WindowNames returns preset names in sorted order.
func (p *Profile) WindowNames() []string {
	names := make([]string, 0, len(p.Windows))
	for n := range p.Windows {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadProfile reads the profile files from dir. Missing files fall back to
// defaults; malformed files are an error. Individual site or window entries
// that cannot be decoded are skipped with a warning.
func LoadProfile(dir string, logger *zap.Logger) (*Profile, error) {
	logger = logger.Named("profile")
	p := &Profile{Dir: dir}

	sites, err := loadSites(filepath.Join(dir, SitesFile), logger)
	if err != nil {
		return nil, err
	}
	p.Sites = sites

	windows, err := loadWindows(filepath.Join(dir, WindowsFile), logger)
	if err != nil {
		return nil, err
	}
	p.Windows = windows

	ignore, err := loadIgnore(filepath.Join(dir, IgnoreFile))
	if err != nil {
		return nil, err
	}
	p.Ignore = ignore

	logger.Debug("profile loaded",
		zap.String("dir", dir),
		zap.Int("sites", len(p.Sites)),
		zap.Int("windows", len(p.Windows)),
		zap.Int("ignored", len(p.Ignore)),
	)
	return p, nil
}

type siteEntry struct {
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
	Height float64 `yaml:"height"`
}

// loadSites decodes name -> {lat, lon, height}, keeping file order.
func loadSites(path string, logger *zap.Logger) ([]visibility.Site, error) {
	root, err := readMapping(path)
	if err != nil {
		return nil, err
	}
	if root == nil {
		logger.Debug("sites file missing, using defaults", zap.String("path", path))
		return DefaultSites(), nil
	}

	var sites []visibility.Site
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var e siteEntry
		if err := root.Content[i+1].Decode(&e); err != nil {
			logger.Warn("skipping malformed site", zap.String("name", name), zap.Error(err))
			continue
		}
		site := visibility.Site{Name: name, Latitude: e.Lat, Longitude: e.Lon, Height: e.Height}
		if err := validate.Struct(site); err != nil {
			logger.Warn("skipping out-of-range site", zap.String("name", name), zap.Error(err))
			continue
		}
		sites = append(sites, site)
	}
	return sites, nil
}

type windowEntry struct {
	MinAlt *float64 `yaml:"minAlt"`
	MaxAlt *float64 `yaml:"maxAlt"`
	MinAz  *float64 `yaml:"minAz"`
	MaxAz  *float64 `yaml:"maxAz"`
}

func (e windowEntry) bounds() visibility.Bounds {
	b := visibility.DefaultBounds()
	if e.MinAlt != nil {
		b.MinAltitude = *e.MinAlt
	}
	if e.MaxAlt != nil {
		b.MaxAltitude = *e.MaxAlt
	}
	if e.MinAz != nil {
		b.MinAzimuth = *e.MinAz
	}
	if e.MaxAz != nil {
		b.MaxAzimuth = *e.MaxAz
	}
	return b
}

// loadWindows decodes name -> {minAlt, maxAlt, minAz, maxAz}; missing keys
// take the full-sky defaults.
func loadWindows(path string, logger *zap.Logger) (map[string]visibility.Bounds, error) {
	root, err := readMapping(path)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return DefaultWindows(), nil
	}

	windows := make(map[string]visibility.Bounds)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var e windowEntry
		if err := root.Content[i+1].Decode(&e); err != nil {
			logger.Warn("skipping malformed visibility window", zap.String("name", name), zap.Error(err))
			continue
		}
		b := e.bounds()
		if err := validate.Struct(b); err != nil {
			logger.Warn("skipping out-of-range visibility window", zap.String("name", name), zap.Error(err))
			continue
		}
		windows[name] = b
	}
	return windows, nil
}

// readMapping parses a JSON (or YAML) object file into its mapping node.
// It returns nil, nil when the file does not exist.
func readMapping(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "config: read %s", path)
	}
	// JSON allows tab indentation, YAML does not.
	data = bytes.ReplaceAll(data, []byte("\t"), []byte("  "))

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, eris.Errorf("config: %s must contain an object", path)
	}
	return root, nil
}

// loadIgnore reads one name per line, skipping blanks and # comments.
func loadIgnore(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "config: open %s", path)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "config: read %s", path)
	}
	return names, nil
}

// Bootstrap creates dir and writes default profile files that do not exist
// yet. It returns the paths it created.
func Bootstrap(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, eris.Wrapf(err, "config: create %s", dir)
	}

	files := []struct {
		name string
		data func() ([]byte, error)
	}{
		{SitesFile, func() ([]byte, error) { return EncodeSites(DefaultSites()[:1]) }},
		{WindowsFile, func() ([]byte, error) { return json.MarshalIndent(windowsJSON(DefaultWindows()), "", "  ") }},
		{IgnoreFile, func() ([]byte, error) {
			return []byte("# One supernova name per line. Listed names are left out of results.\n"), nil
		}},
	}

	var created []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		data, err := f.data()
		if err != nil {
			return created, eris.Wrapf(err, "config: encode %s", f.name)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return created, eris.Wrapf(err, "config: write %s", path)
		}
		created = append(created, path)
	}
	return created, nil
}

// SaveSites replaces sites.json in dir with sites, in the given order.
func SaveSites(dir string, sites []visibility.Site) error {
	data, err := EncodeSites(sites)
	if err != nil {
		return eris.Wrap(err, "config: encode sites")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return eris.Wrapf(err, "config: create %s", dir)
	}
	if err := os.WriteFile(filepath.Join(dir, SitesFile), data, 0644); err != nil {
		return eris.Wrap(err, "config: write sites")
	}
	return nil
}

// SaveWindows replaces visibility_windows.json in dir with windows.
func SaveWindows(dir string, windows map[string]visibility.Bounds) error {
	data, err := json.MarshalIndent(windowsJSON(windows), "", "  ")
	if err != nil {
		return eris.Wrap(err, "config: encode visibility windows")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return eris.Wrapf(err, "config: create %s", dir)
	}
	if err := os.WriteFile(filepath.Join(dir, WindowsFile), append(data, '\n'), 0644); err != nil {
		return eris.Wrap(err, "config: write visibility windows")
	}
	return nil
}

// EncodeSites renders sites as an ordered JSON object.
func EncodeSites(sites []visibility.Site) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, s := range sites {
		name, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		entry, err := json.Marshal(map[string]float64{"lat": s.Latitude, "lon": s.Longitude, "height": s.Height})
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		buf.Write(name)
		buf.WriteString(": ")
		buf.Write(entry)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

func windowsJSON(w map[string]visibility.Bounds) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(w))
	for name, b := range w {
		out[name] = map[string]float64{
			"minAlt": b.MinAltitude,
			"maxAlt": b.MaxAltitude,
			"minAz":  b.MinAzimuth,
			"maxAz":  b.MaxAzimuth,
		}
	}
	return out
}

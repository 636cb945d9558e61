package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"
)

// SearchConfig is the per-workspace bundle of period search settings.
type SearchConfig struct {
	HeadingLevel       int      `yaml:"heading_level"         json:"heading_level"`
	HighlightResults   bool     `yaml:"highlight_results"     json:"highlight_results"`
	HighlightMarker    string   `yaml:"highlight_marker"      json:"highlight_marker"`
	ResultQuoteLength  int      `yaml:"result_quote_length"   json:"result_quote_length"`
	GroupResultsByNote bool     `yaml:"group_results_by_note" json:"group_results_by_note"`
	ResultPrefix       string   `yaml:"result_prefix"         json:"result_prefix"`
	ShowEmptyResults   bool     `yaml:"show_empty_results"    json:"show_empty_results"`
	FoldersToExclude   []string `yaml:"folders_to_exclude"    json:"folders_to_exclude"`
	FolderToStore      string   `yaml:"folder_to_store"       json:"folder_to_store"`
	AutoSave           bool     `yaml:"auto_save"             json:"auto_save"`
	DefaultSearchTerms string   `yaml:"default_search_terms"  json:"default_search_terms"`
	SearchHeading      string   `yaml:"search_heading"        json:"search_heading"`
	DateStyle          string   `yaml:"date_style"            json:"date_style"`
	OpenResults        bool     `yaml:"open_results"          json:"open_results"`
}

// MirrorConfig names the S3 location saved reports are copied to. An empty
// bucket disables mirroring.
type MirrorConfig struct {
	Bucket string `yaml:"bucket" json:"bucket"`
	Prefix string `yaml:"prefix" json:"prefix"`
	Region string `yaml:"region" json:"region"`
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		HeadingLevel:       2,
		HighlightResults:   true,
		HighlightMarker:    "==",
		ResultQuoteLength:  100,
		GroupResultsByNote: true,
		ResultPrefix:       "- ",
		FoldersToExclude:   []string{"archive", "trash", "@Templates"},
		FolderToStore:      "Searches",
		SearchHeading:      "Search Results",
		DateStyle:          "link",
		OpenResults:        true,
	}
}

// UnmarshalYAML starts from the defaults so omitted keys keep them.
func (cfg *SearchConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain SearchConfig
	raw := plain(DefaultSearchConfig())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*cfg = SearchConfig(raw)
	return nil
}

type Workspace struct {
	VaultDir    string       `yaml:"vaultdir"     json:"vault_dir"`
	Editor      string       `yaml:"editor"       json:"editor"`
	NvimArgs    string       `yaml:"nvimargs"     json:"nvim_args"`
	CalendarDir string       `yaml:"calendar_dir" json:"calendar_dir"`
	Search      SearchConfig `yaml:"search"       json:"search"`
	Mirror      MirrorConfig `yaml:"mirror"       json:"mirror"`
}

// UnmarshalYAML fills a workspace that omits the search block with defaults.
func (ws *Workspace) UnmarshalYAML(value *yaml.Node) error {
	type plain Workspace
	raw := plain(*newWorkspace())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*ws = Workspace(raw)
	return nil
}

type Config struct {
	Workspaces       map[string]*Workspace `yaml:"workspaces"        json:"workspaces"`
	CurrentWorkspace string                `yaml:"current_workspace" json:"current_workspace"`

	active *Workspace `yaml:"-"`
	home   string     `yaml:"-"`
}

const defaultWorkspaceName = "default"

var validEditorNames = []string{"nvim", "obsidian", "vscode", "code", "vim", "nano"}

var validDateStyles = []string{"link", "at", "scheduled", "date"}

func ValidateEditor(editor string) error {
	for _, name := range validEditorNames {
		if name == editor {
			return nil
		}
	}
	return fmt.Errorf("invalid editor: %q. Please choose from %s.", editor, quotedList(validEditorNames))
}

// Validate checks the search settings that have a closed set of values.
func (s SearchConfig) Validate() error {
	if s.HeadingLevel < 1 || s.HeadingLevel > 5 {
		return fmt.Errorf("search.heading_level must be between 1 and 5, got %d", s.HeadingLevel)
	}
	if s.ResultQuoteLength < 0 {
		return fmt.Errorf("search.result_quote_length must not be negative, got %d", s.ResultQuoteLength)
	}
	for _, style := range validDateStyles {
		if style == s.DateStyle {
			return nil
		}
	}
	return fmt.Errorf("invalid search.date_style: %q. Please choose from %s.", s.DateStyle, quotedList(validDateStyles))
}

func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}

	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// flatConfig is a single-workspace file without the workspaces map.
type flatConfig struct {
	VaultDir    string        `yaml:"vaultdir"`
	Editor      string        `yaml:"editor"`
	NvimArgs    string        `yaml:"nvimargs"`
	CalendarDir string        `yaml:"calendar_dir"`
	Search      *SearchConfig `yaml:"search"`
	Mirror      MirrorConfig  `yaml:"mirror"`
}

func newWorkspace() *Workspace {
	return &Workspace{Search: DefaultSearchConfig()}
}

func (ws *Workspace) ensureDefaults() {
	ws.VaultDir = strings.TrimSpace(ws.VaultDir)
	ws.CalendarDir = strings.Trim(strings.TrimSpace(ws.CalendarDir), "/")
	if ws.Search.FolderToStore == "" {
		ws.Search.FolderToStore = DefaultSearchConfig().FolderToStore
	}
	if ws.Search.DateStyle == "" {
		ws.Search.DateStyle = DefaultSearchConfig().DateStyle
	}
	if ws.Search.HeadingLevel == 0 {
		ws.Search.HeadingLevel = DefaultSearchConfig().HeadingLevel
	}
}

func Load(home string) (*Config, error) {
	data, err := os.ReadFile(GetConfigPath(home))
	if err != nil {
		return nil, err
	}

	cfg := &Config{home: home}
	if len(strings.TrimSpace(string(data))) == 0 {
		cfg.Workspaces = map[string]*Workspace{defaultWorkspaceName: newWorkspace()}
		cfg.CurrentWorkspace = defaultWorkspaceName
	} else {
		raw := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}

		if _, ok := raw["workspaces"]; ok {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else {
			var flat flatConfig
			if err := yaml.Unmarshal(data, &flat); err != nil {
				return nil, err
			}
			cfg.adoptFlat(&flat)
		}
	}

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}
	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return nil, err
		}
	}
	if err := ws.Search.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) adoptFlat(flat *flatConfig) {
	ws := newWorkspace()
	ws.VaultDir = flat.VaultDir
	ws.Editor = flat.Editor
	ws.NvimArgs = flat.NvimArgs
	ws.CalendarDir = flat.CalendarDir
	ws.Mirror = flat.Mirror
	if flat.Search != nil {
		ws.Search = *flat.Search
	}

	cfg.Workspaces = map[string]*Workspace{defaultWorkspaceName: ws}
	cfg.CurrentWorkspace = defaultWorkspaceName
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}

	if cfg.CurrentWorkspace == "" {
		if len(cfg.Workspaces) == 0 {
			cfg.Workspaces[defaultWorkspaceName] = newWorkspace()
			cfg.CurrentWorkspace = defaultWorkspaceName
		} else {
			cfg.CurrentWorkspace = cfg.WorkspaceNames()[0]
		}
	}

	return cfg.setActiveWorkspace(cfg.CurrentWorkspace)
}

func (cfg *Config) setActiveWorkspace(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	ws, ok := cfg.Workspaces[name]
	if !ok {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if ws == nil {
		ws = newWorkspace()
		cfg.Workspaces[name] = ws
	}

	ws.ensureDefaults()
	cfg.CurrentWorkspace = name
	cfg.active = ws

	syncWorkspaceWithViper(ws)
	return nil
}

func syncWorkspaceWithViper(ws *Workspace) {
	viper.Set("vaultdir", ws.VaultDir)
	viper.Set("editor", ws.Editor)
	viper.Set("nvimargs", ws.NvimArgs)
	viper.Set("calendar_dir", ws.CalendarDir)
	viper.Set("search", ws.Search)
	viper.Set("mirror", ws.Mirror)
}

func (cfg *Config) ActiveWorkspace() (*Workspace, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentWorkspace == "" {
		return nil, fmt.Errorf("no workspace is currently selected")
	}

	if err := cfg.setActiveWorkspace(cfg.CurrentWorkspace); err != nil {
		return nil, err
	}

	return cfg.active, nil
}

func (cfg *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(cfg.Workspaces))
	for name := range cfg.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActivateWorkspace switches the active workspace for this run only.
func (cfg *Config) ActivateWorkspace(name string) error {
	return cfg.setActiveWorkspace(name)
}

func (cfg *Config) SwitchWorkspace(name string) error {
	if err := cfg.setActiveWorkspace(name); err != nil {
		return err
	}
	return cfg.Save()
}

func (cfg *Config) AddWorkspace(name string, ws *Workspace, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}

	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}
	if _, exists := cfg.Workspaces[trimmed]; exists {
		return fmt.Errorf("workspace %q already exists", trimmed)
	}

	if ws == nil {
		ws = newWorkspace()
	}
	ws.ensureDefaults()
	cfg.Workspaces[trimmed] = ws

	if cfg.CurrentWorkspace == "" || makeCurrent {
		if err := cfg.setActiveWorkspace(trimmed); err != nil {
			return err
		}
	}

	return cfg.Save()
}

// Initialize records ws under name and makes it current. Workspaces that
// have no vault yet are dropped; a configured workspace is never replaced.
func (cfg *Config) Initialize(name string, ws *Workspace) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultWorkspaceName
	}
	if ws == nil || strings.TrimSpace(ws.VaultDir) == "" {
		return fmt.Errorf("vault path is required")
	}

	for existingName, existing := range cfg.Workspaces {
		if existing == nil || strings.TrimSpace(existing.VaultDir) == "" {
			delete(cfg.Workspaces, existingName)
			if cfg.CurrentWorkspace == existingName {
				cfg.CurrentWorkspace = ""
				cfg.active = nil
			}
		}
	}

	return cfg.AddWorkspace(name, ws, true)
}

func (cfg *Config) ChangeEditor(editor string) error {
	if err := ValidateEditor(editor); err != nil {
		return err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	ws.Editor = editor
	return cfg.Save()
}

func (cfg *Config) GetConfigPath() string {
	if cfg.home != "" {
		return GetConfigPath(cfg.home)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return GetConfigPath(homeDir)
}

func (cfg *Config) Save() error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}

	if ws.Editor != "" {
		if err := ValidateEditor(ws.Editor); err != nil {
			return err
		}
	}
	if err := ws.Search.Validate(); err != nil {
		return err
	}

	syncWorkspaceWithViper(ws)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

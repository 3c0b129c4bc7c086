package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"recipe-engine/internal/pkg/common"
)

//go:embed data/recipes.yaml
var defaultData []byte

// ErrNotFound 食譜名稱不在目錄中
var ErrNotFound = errors.New("recipe not found")

// Catalog 不可變的食譜目錄，可在多個會話間共用
type Catalog struct {
	baseline int
	recipes  []*Recipe
	byName   map[string]*Recipe
}

type catalogFile struct {
	BaselineServings int       `yaml:"baseline_servings"`
	Recipes          []*Recipe `yaml:"recipes"`
}

// Default 載入內嵌的食譜資料
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultData))
}

// Load 從 YAML 載入並驗證食譜目錄
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if file.BaselineServings <= 0 {
		return nil, fmt.Errorf("catalog baseline_servings must be positive, got %d", file.BaselineServings)
	}

	c := &Catalog{
		baseline: file.BaselineServings,
		recipes:  make([]*Recipe, 0, len(file.Recipes)),
		byName:   make(map[string]*Recipe, len(file.Recipes)),
	}

	var errs []error
	for i, recipe := range file.Recipes {
		if err := validate(recipe); err != nil {
			errs = append(errs, fmt.Errorf("recipe #%d %q: %w", i, recipe.Name, err))
			continue
		}
		key := common.Fold(recipe.Name)
		if _, dup := c.byName[key]; dup {
			errs = append(errs, fmt.Errorf("recipe #%d: duplicate name %q", i, recipe.Name))
			continue
		}
		c.byName[key] = recipe
		c.recipes = append(c.recipes, recipe)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	common.LogDebug("Recipe catalog loaded",
		zap.Int("recipes", len(c.recipes)),
		zap.Int("baseline_servings", c.baseline),
	)
	return c, nil
}

func validate(r *Recipe) error {
	if r == nil || r.Name == "" {
		return errors.New("missing name")
	}
	if !r.Origin.Valid() {
		return fmt.Errorf("unknown origin %q", r.Origin)
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}
	if len(r.Seasons) == 0 {
		return errors.New("no season")
	}
	for _, s := range r.Seasons {
		if !s.Valid() {
			return fmt.Errorf("unknown season %q", s)
		}
	}
	if r.Budget < 0 {
		return fmt.Errorf("negative budget %.2f", r.Budget)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("non-positive duration %d", r.Duration)
	}
	if len(r.Ingredients) == 0 {
		return errors.New("no ingredients")
	}
	seen := make(map[string]bool, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Key == "" || ing.Quantity <= 0 {
			return fmt.Errorf("invalid ingredient %q: %v", ing.Key, ing.Quantity)
		}
		if seen[ing.Key] {
			return fmt.Errorf("duplicate ingredient %q", ing.Key)
		}
		seen[ing.Key] = true
	}
	if len(r.Steps) == 0 {
		return errors.New("no steps")
	}
	return nil
}

// Baseline 食譜用量對應的基準份數
func (c *Catalog) Baseline() int {
	return c.baseline
}

// Len 食譜數量
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// All 依目錄順序回傳所有食譜的副本
func (c *Catalog) All() []*Recipe {
	out := make([]*Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.Clone()
	}
	return out
}

// Names 依目錄順序回傳食譜名稱
func (c *Catalog) Names() []string {
	names := make([]string, len(c.recipes))
	for i, r := range c.recipes {
		names[i] = r.Name
	}
	return names
}

// Get 依名稱取得食譜副本，不區分大小寫與重音
func (c *Catalog) Get(name string) (*Recipe, error) {
	if r, ok := c.byName[common.Fold(name)]; ok {
		return r.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

package data

// AssetRegistrar is the asset system's registration surface. The server only
// needs model indices; observers also register HUD icons.
type AssetRegistrar interface {
	RegisterModel(path string) int
	RegisterIcon(path string) int
}

// Precache registers every referenced piece asset once and returns the number
// of buildable piece types.
func Precache(reg AssetRegistrar) int {
	n := 0
	for _, def := range Pieces() {
		if def.ModelPath != "" {
			reg.RegisterModel(def.ModelPath)
		}
		if def.IconPath != "" {
			reg.RegisterIcon(def.IconPath)
		}
		n++
	}
	return n
}

// ModelTable assigns stable indices to asset paths, like a config-string table.
// Index 0 means "no model". Single-goroutine access only (game loop).
type ModelTable struct {
	index map[string]int
	paths []string
	icons map[string]int
}

func NewModelTable() *ModelTable {
	return &ModelTable{
		index: make(map[string]int),
		paths: []string{""},
		icons: make(map[string]int),
	}
}

// RegisterModel returns the index for path, assigning one on first use.
func (t *ModelTable) RegisterModel(path string) int {
	if path == "" {
		return 0
	}
	if i, ok := t.index[path]; ok {
		return i
	}
	i := len(t.paths)
	t.paths = append(t.paths, path)
	t.index[path] = i
	return i
}

// RegisterIcon tracks icon paths; the server never replicates them.
func (t *ModelTable) RegisterIcon(path string) int {
	if i, ok := t.icons[path]; ok {
		return i
	}
	i := len(t.icons) + 1
	t.icons[path] = i
	return i
}

// ModelIndex looks up an already registered model; 0 when unknown.
func (t *ModelTable) ModelIndex(path string) int {
	return t.index[path]
}

// Models returns the registered model paths; position is the model index.
func (t *ModelTable) Models() []string {
	return t.paths
}

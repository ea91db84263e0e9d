package main

// Rarity levels for skins
const (
	RarityCommon    = 0
	RarityRare      = 1
	RarityEpic      = 2
	RarityLegendary = 3
)

// StoreItem represents a purchasable snake skin
type StoreItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rarity  int    `json:"rarity"` // 0=common, 1=rare, 2=epic, 3=legendary
	Price   int    `json:"price"`  // in coins
	Fill    string `json:"fill"`   // body color (hex)
	Head    string `json:"head"`   // head color (hex)
	Preview string `json:"preview"`
}

// StoreCatalog is the full list of purchasable skins
var StoreCatalog = []StoreItem{
	// Common (50-100 coins)
	{ID: "skin_crimson", Name: "Crimson", Rarity: RarityCommon, Price: 50, Fill: "#c0392b", Head: "#e74c3c", Preview: "Blood red scales"},
	{ID: "skin_forest", Name: "Forest", Rarity: RarityCommon, Price: 50, Fill: "#1e8449", Head: "#2ecc71", Preview: "Deep jungle green"},
	{ID: "skin_ocean", Name: "Ocean", Rarity: RarityCommon, Price: 50, Fill: "#2471a3", Head: "#5dade2", Preview: "Sea serpent blue"},
	{ID: "skin_sand", Name: "Sand", Rarity: RarityCommon, Price: 75, Fill: "#b7950b", Head: "#f4d03f", Preview: "Desert adder tones"},

	// Rare (150-250 coins)
	{ID: "skin_gold", Name: "Golden", Rarity: RarityRare, Price: 150, Fill: "#d4ac0d", Head: "#f9e79f", Preview: "Gleaming gold scales"},
	{ID: "skin_ice", Name: "Ice", Rarity: RarityRare, Price: 150, Fill: "#85c1e9", Head: "#d6eaf8", Preview: "Frozen crystal skin"},
	{ID: "skin_toxic", Name: "Toxic", Rarity: RarityRare, Price: 200, Fill: "#7dcea0", Head: "#a9dfbf", Preview: "Venomous green glow"},

	// Epic (400-600 coins)
	{ID: "skin_phantom", Name: "Phantom", Rarity: RarityEpic, Price: 400, Fill: "#2c3e50", Head: "#566573", Preview: "Barely there in the dark"},
	{ID: "skin_inferno", Name: "Inferno", Rarity: RarityEpic, Price: 500, Fill: "#e67e22", Head: "#f5b041", Preview: "Burning ember pattern"},

	// Legendary (1000+ coins)
	{ID: "skin_nebula", Name: "Nebula", Rarity: RarityLegendary, Price: 1000, Fill: "#8e44ad", Head: "#d2b4de", Preview: "Swirling cosmic colors"},
	{ID: "skin_void", Name: "Void", Rarity: RarityLegendary, Price: 1200, Fill: "#17202a", Head: "#4a235a", Preview: "Absorbs all light"},
}

// StoreCatalogMap provides O(1) lookup by item ID
var StoreCatalogMap map[string]StoreItem

func init() {
	StoreCatalogMap = make(map[string]StoreItem, len(StoreCatalog))
	for _, item := range StoreCatalog {
		StoreCatalogMap[item.ID] = item
	}
}

// CoinsPerRun returns the coins earned for a finished run
func CoinsPerRun(score int, won bool) int {
	coins := 10 + score/10
	if won {
		coins += 25
	}
	return coins
}

// SkinFills resolves a skin id to body and head fill styles, falling back
// to the species defaults for unknown or unset skins
func SkinFills(id string) (FillStyle, FillStyle) {
	if item, ok := StoreCatalogMap[id]; ok {
		return FillStyle(item.Fill), FillStyle(item.Head)
	}
	return GetSpecies(KindPlayer).Fill, PlayerHeadFill
}

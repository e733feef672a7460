package models

// Category is one of the fixed marketplace categories.
type Category string

const (
	CategoryOrganicSeeds   Category = "organic-seeds"
	CategoryEcoFertilizers Category = "eco-fertilizers"
	CategorySolarEnergy    Category = "solar-energy"
	CategoryWaterSaving    Category = "water-saving"
	CategoryRecycledTools  Category = "recycled-tools"
	CategoryBioPesticides  Category = "bio-pesticides"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryOrganicSeeds,
	CategoryEcoFertilizers,
	CategorySolarEnergy,
	CategoryWaterSaving,
	CategoryRecycledTools,
	CategoryBioPesticides,
}

type Product struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         float64  `json:"price"`
	Category      Category `json:"category"`
	Seller        any      `json:"seller,omitempty"`
	StockQuantity int      `json:"stock_quantity"`
	Unit          string   `json:"unit"`
	ProductImages []string `json:"product_images,omitempty"`
}

// NewProduct is the listing form. Images are local file paths sent as
// multipart parts.
type NewProduct struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"gt=0"`
	Category      Category `json:"category" validate:"required,oneof=organic-seeds eco-fertilizers solar-energy water-saving recycled-tools bio-pesticides"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	Unit          string   `json:"unit" validate:"required"`
	Images        []string `json:"images" validate:"min=1,dive,required"`
}

package hsn

import "gstrate/internal/port"

// defaultEntries is the compiled-in HSN master used when no database master is
// configured. Rates are the combined GST percentage (CGST+SGST or IGST).
var defaultEntries = []port.HSNEntry{
	{Code: "0101", Description: "Live horses, asses, mules", GSTRate: 0},
	{Code: "0401", Description: "Fresh milk and cream", GSTRate: 0},
	{Code: "0402", Description: "Milk powder and concentrated milk", GSTRate: 5},
	{Code: "0901", Description: "Coffee", GSTRate: 5},
	{Code: "0902", Description: "Tea", GSTRate: 5},
	{Code: "1006", Description: "Rice", GSTRate: 5},
	{Code: "1701", Description: "Cane or beet sugar", GSTRate: 5},
	{Code: "1905", Description: "Bread, biscuits and bakery products", GSTRate: 18},
	{Code: "2106", Description: "Food preparations", GSTRate: 18},
	{Code: "2201", Description: "Mineral and aerated waters", GSTRate: 18},
	{Code: "2202", Description: "Sweetened aerated beverages", GSTRate: 28},
	{Code: "3004", Description: "Medicaments", GSTRate: 12},
	{Code: "3304", Description: "Beauty and make-up preparations", GSTRate: 18},
	{Code: "3305", Description: "Preparations for use on the hair", GSTRate: 18},
	{Code: "3401", Description: "Soap and organic surface-active products", GSTRate: 18},
	{Code: "4202", Description: "Trunks, suitcases, handbags and similar containers", GSTRate: 18},
	{Code: "4820", Description: "Registers, notebooks and stationery", GSTRate: 12},
	{Code: "4901", Description: "Printed books and brochures", GSTRate: 0},
	{Code: "4902", Description: "Newspapers and periodicals", GSTRate: 0},
	{Code: "5208", Description: "Woven fabrics of cotton", GSTRate: 5},
	{Code: "6109", Description: "T-shirts, singlets and vests, knitted", GSTRate: 5},
	{Code: "6203", Description: "Men's suits, jackets and trousers", GSTRate: 12},
	{Code: "6204", Description: "Women's suits, dresses and skirts", GSTRate: 12},
	{Code: "6403", Description: "Footwear with leather uppers", GSTRate: 18},
	{Code: "6404", Description: "Footwear with textile uppers", GSTRate: 18},
	{Code: "7113", Description: "Articles of jewellery", GSTRate: 3},
	{Code: "8414", Description: "Fans and air pumps", GSTRate: 18},
	{Code: "8415", Description: "Air conditioning machines", GSTRate: 28},
	{Code: "8418", Description: "Refrigerators and freezers", GSTRate: 18},
	{Code: "8450", Description: "Household washing machines", GSTRate: 18},
	{Code: "8471", Description: "Computers and data processing machines", GSTRate: 18},
	{Code: "8504", Description: "Power adaptors and chargers", GSTRate: 18},
	{Code: "8516", Description: "Electric heaters, hair dryers and ovens", GSTRate: 18},
	{Code: "8517", Description: "Mobile phones and networking equipment", GSTRate: 18},
	{Code: "8518", Description: "Headphones, earphones and loudspeakers", GSTRate: 18},
	{Code: "8528", Description: "Monitors and television receivers", GSTRate: 18},
	{Code: "8703", Description: "Motor cars", GSTRate: 28},
	{Code: "8711", Description: "Motorcycles", GSTRate: 28},
	{Code: "9004", Description: "Spectacles and goggles", GSTRate: 12},
	{Code: "9102", Description: "Wrist watches", GSTRate: 18},
	{Code: "9403", Description: "Furniture", GSTRate: 18},
	{Code: "9503", Description: "Toys and puzzles", GSTRate: 12},
	{Code: "9506", Description: "Sports and fitness equipment", GSTRate: 12},
	{Code: "9619", Description: "Sanitary towels and napkins", GSTRate: 0},
}

// defaultCategories maps storefront category names to HSN codes.
// Several categories intentionally share a code (Tablets and Laptops are both 8471).
var defaultCategories = []port.CategoryMapping{
	{Category: "Laptops", HSNCode: "8471"},
	{Category: "Computers", HSNCode: "8471"},
	{Category: "Tablets", HSNCode: "8471"},
	{Category: "Mobiles", HSNCode: "8517"},
	{Category: "Smartphones", HSNCode: "8517"},
	{Category: "Chargers", HSNCode: "8504"},
	{Category: "Headphones", HSNCode: "8518"},
	{Category: "Speakers", HSNCode: "8518"},
	{Category: "Televisions", HSNCode: "8528"},
	{Category: "Appliances", HSNCode: "8418"},
	{Category: "Kitchen Appliances", HSNCode: "8516"},
	{Category: "Air Conditioners", HSNCode: "8415"},
	{Category: "Books", HSNCode: "4901"},
	{Category: "Magazines", HSNCode: "4902"},
	{Category: "Stationery", HSNCode: "4820"},
	{Category: "Clothing", HSNCode: "6109"},
	{Category: "Menswear", HSNCode: "6203"},
	{Category: "Womenswear", HSNCode: "6204"},
	{Category: "Fabrics", HSNCode: "5208"},
	{Category: "Footwear", HSNCode: "6403"},
	{Category: "Sneakers", HSNCode: "6404"},
	{Category: "Bags", HSNCode: "4202"},
	{Category: "Jewellery", HSNCode: "7113"},
	{Category: "Watches", HSNCode: "9102"},
	{Category: "Eyewear", HSNCode: "9004"},
	{Category: "Furniture", HSNCode: "9403"},
	{Category: "Toys", HSNCode: "9503"},
	{Category: "Sports", HSNCode: "9506"},
	{Category: "Groceries", HSNCode: "1006"},
	{Category: "Dairy", HSNCode: "0401"},
	{Category: "Tea & Coffee", HSNCode: "0902"},
	{Category: "Snacks", HSNCode: "1905"},
	{Category: "Beverages", HSNCode: "2202"},
	{Category: "Beauty", HSNCode: "3304"},
	{Category: "Hair Care", HSNCode: "3305"},
	{Category: "Personal Care", HSNCode: "3401"},
	{Category: "Medicines", HSNCode: "3004"},
	{Category: "Hygiene", HSNCode: "9619"},
}

// DefaultEntries returns a copy of the compiled-in HSN master.
func DefaultEntries() []port.HSNEntry {
	out := make([]port.HSNEntry, len(defaultEntries))
	copy(out, defaultEntries)
	return out
}

// DefaultCategories returns a copy of the compiled-in category mapping.
func DefaultCategories() []port.CategoryMapping {
	out := make([]port.CategoryMapping, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

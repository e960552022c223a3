package taxonomy

// Fallback values used throughout enrichment
const (
	CategoryOther = "other"
	PaymentOther  = "other"
)

// defaultCategories is the canonical India-focused expense vocabulary.
// Persisted records must use exactly these values or "other".
var defaultCategories = []string{
	"food_dining",
	"transportation",
	"shopping",
	"travel",
	"utilities",
	"entertainment",
	"healthcare",
	"education",
	"housing",
	"insurance",
	"groceries",
	"fuel",
	"mobile_recharge",
	"online_shopping",
	"restaurant",
	"coffee_tea",
	"street_food",
	"medicine",
	"doctor_consultation",
	"school_fees",
	"books_stationery",
	"rent",
	"maintenance",
	"electricity_bill",
	"water_bill",
	"gas_bill",
	"internet_bill",
	"mobile_bill",
	"dth_bill",
	CategoryOther,
}

var defaultPaymentMethods = []string{
	"upi",
	"credit_card",
	"debit_card",
	"net_banking",
	"cash",
	"wallet",
	"emi",
	PaymentOther,
}

// defaultMerchants maps popular Indian merchants to their default category.
var defaultMerchants = []MerchantInfo{
	{Name: "swiggy", Category: "food_dining"},
	{Name: "zomato", Category: "food_dining"},
	{Name: "dominos", Category: "food_dining"},
	{Name: "pizza hut", Category: "food_dining"},
	{Name: "kfc", Category: "food_dining"},
	{Name: "mcdonalds", Category: "food_dining"},
	{Name: "starbucks", Category: "coffee_tea"},
	{Name: "cafe coffee day", Category: "coffee_tea"},
	{Name: "uber", Category: "transportation"},
	{Name: "ola", Category: "transportation"},
	{Name: "rapido", Category: "transportation"},
	{Name: "indian oil", Category: "fuel"},
	{Name: "amazon", Category: "online_shopping"},
	{Name: "flipkart", Category: "online_shopping"},
	{Name: "myntra", Category: "online_shopping"},
	{Name: "nykaa", Category: "online_shopping"},
	{Name: "bigbasket", Category: "groceries"},
	{Name: "blinkit", Category: "groceries"},
	{Name: "airtel", Category: "mobile_bill"},
	{Name: "jio", Category: "mobile_bill"},
	{Name: "vodafone", Category: "mobile_bill"},
	{Name: "bsnl", Category: "mobile_bill"},
	{Name: "tata sky", Category: "dth_bill"},
	{Name: "dish tv", Category: "dth_bill"},
	{Name: "netflix", Category: "entertainment"},
	{Name: "amazon prime", Category: "entertainment"},
	{Name: "spotify", Category: "entertainment"},
	{Name: "bookmyshow", Category: "entertainment"},
	{Name: "apollo pharmacy", Category: "medicine"},
	{Name: "medplus", Category: "medicine"},
	{Name: "1mg", Category: "medicine"},
	{Name: "pharmeasy", Category: "medicine"},
	{Name: "coursera", Category: "education"},
	{Name: "udemy", Category: "education"},
}

// Default returns the embedded taxonomy used when no YAML file is configured
func Default() *Taxonomy {
	tax := &Taxonomy{
		Version:        "builtin-v1",
		Categories:     defaultCategories,
		PaymentMethods: defaultPaymentMethods,
		Merchants:      defaultMerchants,
	}
	tax.index()
	return tax
}

package domain

// SamplePayee is one row of the read-only reference table used to
// synthesize plausible statement transactions: a payee name and the
// range its amounts are drawn from. Negative amounts are spend,
// positive are refunds/credits.
type SamplePayee struct {
	Name string  `json:"name" yaml:"name"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

// DefaultPayees returns the built-in payee table. Fixed at startup
// unless overridden by a fixture file.
func DefaultPayees() []SamplePayee {
	return []SamplePayee{
		{"Sprint PCS", -275, -27},
		{"Costco Gas", -76, -12},
		{"Garlic Jims Famous Gourmet Pizza", -56, -11},
		{"Veterinary Hostpital", -222, -11},
		{"Safeway", -199, 50},
		{"World Market", -100, -9},
		{"AAA", -242, -3},
		{"Radio Shack", -199, 54},
		{"Costco", -4621, 870},
		{"Rite Aid", -50, -3},
		{"Starbucks", -108, -1},
		{"GTC Telecom", -98, -2},
		{"ARCO", -73, -3},
		{"Home Depot", -912, 224},
		{"McLendon Hardware", -202, 25},
		{"World Vision", -147, -5},
		{"State Farm Insurance", -3100, 1191},
		{"Bank of America", -2063, -2063},
		{"Comcast", -74, -49},
		{"Puget Sound Energy", -428, 50},
		{"Albertsons", -62, -1},
		{"Top Foods", -203, 0},
		{"Target", -218, 76},
		{"Ruby's Diner", -99, -3},
		{"DeYoung's Farm & Garden", -181, 84},
		{"Water District", -510, -42},
		{"Whole Foods", -167, -9},
		{"Applebee's", -123, -14},
		{"PCC", -119, -3},
		{"Dairy Queen", -20, -1},
		{"In Harmony", -438, -9},
		{"Jerusalem Post", -49, -3},
		{"Volvo Dealer", -2000, -23},
		{"Big Foot Bagels", -30, -5},
		{"Amazon.com", -293, 71},
		{"REI", -855, 290},
		{"PetSmart", -144, 10},
		{"Jamba Juice", -39, -4},
		{"Waste Management", -150, -92},
		{"Fred Meyer", -121, 42},
		{"Molbaks Inc.", -146, -7},
		{"Walmart", -183, 41},
		{"Verizon", -83, -33},
		{"Barnes & Noble", -113, -2},
		{"McDonalds", -57, -1},
		{"Quizno's", -51, 0},
		{"Pony Mailbox", -78, -4},
		{"Blockbuster Video", -115, 36},
		{"Office Max", -128, -2},
		{"Teddy's Bigger Burgers", -48, -4},
		{"Pallino Pastaria", -57, -15},
		{"Famous Footwear", -322, 142},
		{"Department of Licensing", -61, -20},
		{"Play It Again Sports", -76, 81},
		{"NewEgg.com", -1745, 161},
		{"Marriot Atlanta m:Store", -19, -3},
		{"Marta Atlanta", -18, -4},
		{"Applebees", -73, -15},
		{"Seattle Times", -98, -27},
		{"Foot Zone", -255, 109},
		{"Staples", -161, 326},
		{"The Whole Pet Shop", -78, -8},
		{"Chinese Restaurant", -99, -46},
		{"Animal Healing Center", -328, 140},
		{"Travelsmith Catalogue", -419, 190},
		{"Baskin Robbins", -48, -5},
		{"Subway", -46, -5},
		{"The Lego Store", -405, -13},
		{"Red Robin", -85, -10},
		{"Dentist", -200, -12},
		{"Black Angus", -227, -28},
		{"Lands End", -437, 218},
		{"Gymnastics", -533, -30},
		{"KFC", -45, -5},
		{"Fry's Electronics", -4025, 163},
		{"Milk Delivery", -57, -8},
		{"Soccer West", -140, -13},
		{"Borders Books", -114, 15},
		{"Stevens Pass Ski Resort", -289, -18},
		{"Ben Franklin", -165, -5},
		{"Audible Books", -41, 68},
		{"Great Harvest Bakery", -29, 0},
		{"Osh Kosh B'gosh", -212, -17},
		{"QFC", -36, -1},
		{"Trader Joe's", -93, 0},
		{"Round Table Pizza", -84, -11},
		{"Southwest Airlines", -394, 243},
		{"Consumer Reports", -26, 24},
		{"Cost Plus World Market", -162, -1},
		{"IKEA", -585, 79},
		{"Lego Shop At Home", -391, -3},
		{"Pacific Science Center", -131, -10},
		{"Countrywide", -2063, -2063},
		{"Alaska Airlines", -299, -5},
		{"Chinese Restaurant", -129, -25},
		{"Stevens Pass Cascadian", -27, -4},
		{"Toys R Us", -97, 4},
		{"Linens N Things", -457, -5},
		{"Ski Rentals", -609, 32},
		{"Tapatio Mexican Grill", -83, -7},
		{"Sir Plus", -110, -3},
		{"Bartell Drugs", -76, -1},
		{"Stevens Pass", -540, 34},
		{"SeaTac Airport", -8, 0},
		{"Lego Store", -199, -10},
		{"Intuit", -76, 76},
		{"Loews", -49, -10},
		{"Residential House Cleaning", -135, -125},
		{"Tina Eddy", -50, -25},
		{"A Canine Experience", -755, -25},
		{"Veterinary Hospital", -563, -21},
		{"Denny's", -20, -1},
		{"Museum Of Flight", -48, -3},
		{"USPS", -36, -1},
		{"Legoland", -290, -3},
		{"Sears", -1810, 63},
		{"Hobby Town USA", -80, -5},
	}
}

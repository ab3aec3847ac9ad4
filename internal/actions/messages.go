package actions

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stockpilot/stockbot-go/internal/i18n"
	"github.com/stockpilot/stockbot-go/internal/inventory"
)

// Fixed replies.
var (
	msgAuthRestart = i18n.Text{
		EN: "Authentication error. Please restart the chat.",
		HI: "प्रमाणीकरण त्रुटि। कृपया चैट को पुनरारंभ करें।",
	}
	msgAuth = i18n.Text{
		EN: "Authentication error.",
		HI: "प्रमाणीकरण त्रुटि।",
	}

	msgInvalidLanguage = i18n.Text{
		EN: "Please specify a valid language: English or Hindi.",
		HI: "कृपया एक मान्य भाषा निर्दिष्ट करें: अंग्रेजी या हिंदी।",
	}

	msgAskCheckProduct = i18n.Text{
		EN: "Which product would you like to check?",
		HI: "आप किस उत्पाद की जानकारी चाहते हैं?",
	}
	msgAskDetailsProduct = i18n.Text{
		EN: "Which product would you like details for?",
		HI: "आप किस उत्पाद का विवरण चाहते हैं?",
	}

	msgLowStockUnavailable = i18n.Text{
		EN: "I couldn't retrieve the low stock report right now.",
		HI: "मैं अभी कम स्टॉक रिपोर्ट प्राप्त नहीं कर सका।",
	}
	msgReportFailed = i18n.Text{
		EN: "Sorry, something went wrong while fetching the report.",
		HI: "क्षमा करें, रिपोर्ट लाते समय कुछ गड़बड़ हो गई।",
	}
	msgSalesReportFailed = i18n.Text{
		EN: "Sorry, I couldn't generate the full sales report right now.",
		HI: "क्षमा करें, मैं अभी पूरी बिक्री रिपोर्ट नहीं बना सका।",
	}

	msgAskAddProduct = i18n.Text{
		EN: "Which product do you want to add stock to?",
		HI: "आप किस उत्पाद में स्टॉक जोड़ना चाहते हैं?",
	}
	msgAskAddQuantity = i18n.Text{
		EN: "How many units to add?",
		HI: "कितनी इकाइयां जोड़नी हैं?",
	}
	msgAddFailed = i18n.Text{
		EN: "Sorry, I failed to add the stock.",
		HI: "क्षमा करें, मैं स्टॉक जोड़ने में विफल रहा।",
	}

	msgAskRemoveProduct = i18n.Text{
		EN: "Which product's stock do you want to remove?",
		HI: "आप किस उत्पाद का स्टॉक हटाना चाहते हैं?",
	}
	msgAskRemoveQuantity = i18n.Text{
		EN: "How many units do you want to remove?",
		HI: "आप कितनी इकाइयां हटाना चाहते हैं?",
	}
	msgRemoveFailed = i18n.Text{
		EN: "Sorry, I failed to remove the stock.",
		HI: "क्षमा करें, मैं स्टॉक हटाने में विफल रहा।",
	}

	msgUpdateError = i18n.Text{
		EN: "An error occurred while updating stock.",
		HI: "स्टॉक अपडेट करते समय एक त्रुटि हुई।",
	}

	// RateLimited is sent instead of running an action when a sender
	// exceeds its request budget.
	RateLimited = i18n.Text{
		EN: "You're sending requests too quickly. Please wait a moment and try again.",
		HI: "आप बहुत तेज़ी से अनुरोध भेज रहे हैं। कृपया थोड़ी देर रुककर फिर से प्रयास करें।",
	}
)

func msgLanguageSet(lang i18n.Lang, spoken string) string {
	return i18n.Text{
		EN: fmt.Sprintf("Language set to %s.", spoken),
		HI: fmt.Sprintf("भाषा %s पर सेट की गई है।", spoken),
	}.Pick(lang)
}

func msgStockLevel(name string, quantity int) i18n.Text {
	return i18n.Text{
		EN: fmt.Sprintf("You have %d units of %s in stock.", quantity, name),
		HI: fmt.Sprintf("आपके पास %s के %d यूनिट स्टॉक में हैं।", name, quantity),
	}
}

func msgItemNamedNotFound(query string) i18n.Text {
	return i18n.Text{
		EN: fmt.Sprintf("Sorry, I couldn't find an item named '%s'.", query),
		HI: fmt.Sprintf("क्षमा करें, मुझे '%s' नाम का कोई आइटम नहीं मिला।", query),
	}
}

func msgItemNotFound(query string) i18n.Text {
	return i18n.Text{
		EN: fmt.Sprintf("Sorry, I couldn't find '%s'.", query),
		HI: fmt.Sprintf("क्षमा करें, मुझे '%s' नहीं मिला।", query),
	}
}

func msgProductNotFound(query string) i18n.Text {
	return i18n.Text{
		EN: fmt.Sprintf("Product '%s' not found.", query),
		HI: fmt.Sprintf("उत्पाद '%s' नहीं मिला।", query),
	}
}

func msgItemDetails(item *inventory.Item) i18n.Text {
	price := money(item.SellingPrice)
	return i18n.Text{
		EN: fmt.Sprintf("Here are the details for %s:\n- SKU: %s\n- Category: %s\n- Supplier: %s\n- Selling Price: %s",
			item.Name, item.SKU, item.Category, item.Supplier, price),
		HI: fmt.Sprintf("%s के विवरण यहाँ दिए गए हैं:\n- SKU: %s\n- श्रेणी: %s\n- आपूर्तिकर्ता: %s\n- बिक्री मूल्य: %s",
			item.Name, item.SKU, item.Category, item.Supplier, price),
	}
}

func msgLowStockCount(count int) i18n.Text {
	return i18n.Text{
		EN: fmt.Sprintf("You currently have %d items that are low on stock.", count),
		HI: fmt.Sprintf("आपके पास वर्तमान में %d आइटम हैं जो स्टॉक में कम हैं।", count),
	}
}

// msgSalesSummary expects reports for today, the last 7 days and the last
// 30 days, in that order.
func msgSalesSummary(reports []inventory.SalesReport) i18n.Text {
	today, week, month := reports[0], reports[1], reports[2]
	return i18n.Text{
		EN: fmt.Sprintf("Here is your sales summary:\n"+
			"- **Today**: You had %d sales with a total revenue of %s.\n"+
			"- **Last 7 Days**: You had %d sales with a total revenue of %s.\n"+
			"- **Last 30 Days**: You had %d sales with a total revenue of %s.",
			today.NumberOfSales, money(today.TotalRevenue),
			week.NumberOfSales, money(week.TotalRevenue),
			month.NumberOfSales, money(month.TotalRevenue)),
		HI: fmt.Sprintf("यहाँ आपकी बिक्री का सारांश है:\n"+
			"- **आज**: आपकी %d बिक्री हुई और कुल राजस्व %s था।\n"+
			"- **पिछले 7 दिन**: आपकी %d बिक्री हुई और कुल राजस्व %s था।\n"+
			"- **पिछले 30 दिन**: आपकी %d बिक्री हुई और कुल राजस्व %s था।",
			today.NumberOfSales, money(today.TotalRevenue),
			week.NumberOfSales, money(week.TotalRevenue),
			month.NumberOfSales, money(month.TotalRevenue)),
	}
}

func msgStockUpdated(name string, quantity int) i18n.Text {
	return i18n.Text{
		EN: fmt.Sprintf("Done. The new stock for %s is %d.", name, quantity),
		HI: fmt.Sprintf("हो गया। %s का नया स्टॉक %d है।", name, quantity),
	}
}

func msgNotEnoughStock(available int) i18n.Text {
	return i18n.Text{
		EN: fmt.Sprintf("Not enough stock. You only have %d units.", available),
		HI: fmt.Sprintf("पर्याप्त स्टॉक नहीं है। आपके पास केवल %d इकाइयां हैं।", available),
	}
}

// money formats an amount in rupees with two decimals.
func money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

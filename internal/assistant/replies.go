package assistant

const (
	searchHeader  = "Here are some products that might interest you:\n\n"
	searchFooter  = "Visit our Browse page to see all products and add items to your cart!"
	searchEmpty   = "I couldn't find specific products matching your query, but you can browse all our artisan products on the Browse page. We have a wide variety of handcrafted items!"
	searchFailed  = "You can browse all our artisan products on the Browse page. We have various categories like pottery, jewelry, textiles, and more!"
	defaultReply  = "I'm here to help you with the Artisan Marketplace. You can ask me about products, artisans, registration, or any other questions about our platform. How can I assist you?"
	Greeting      = "Hello! I'm the Artisan Marketplace assistant. Ask me about products, artisans, registration or prices."
	EmptyMessage  = "Please enter a message"
	InternalError = "Sorry, I encountered an error. Please try again."
)

// shoppingKeywords route a message to the catalog search instead of the chat model.
var shoppingKeywords = []string{"product", "item", "buy", "purchase", "show me", "find", "search", "recommend"}

// cannedReplies is checked in order; the first key contained in the message wins.
var cannedReplies = []struct{ key, reply string }{
	{"hello", "Hello! Welcome to the Artisan Marketplace. How can I help you today?"},
	{"products", "You can browse our artisan products by visiting the Browse page. We have handmade items in various categories like pottery, jewelry, textiles, and more."},
	{"artisan", "Artisans can register and showcase their handmade products on our platform. They can add product details, images, and stories."},
	{"buy", "To purchase items, browse our products, add them to your cart, and proceed to checkout. You'll need to register as a buyer first."},
	{"register", "You can register as either an artisan (to sell products) or a buyer (to purchase items). Visit our registration pages to get started."},
	{"help", "I'm here to help! You can ask me about products, artisans, registration, or any general questions about our marketplace."},
	{"price", "All prices on our marketplace are in Indian Rupees (₹). You can filter products by price range when browsing."},
	{"categories", "We have various product categories including pottery, jewelry, textiles, woodwork, paintings, and more handcrafted items."},
}

const systemPreamble = `You are a helpful assistant for the Artisan Marketplace, a platform connecting local artisans with buyers.
Your role is to help users navigate the marketplace, find products, understand artisan stories, and provide general assistance.
Please provide a helpful, friendly response. If the user is asking about products, artisans, or marketplace features,
provide relevant information. Keep responses concise but informative.`

var marketplaceFacts = []string{
	"This is an Artisan Marketplace where:",
	"- Local artisans can showcase their handmade products",
	"- Buyers can discover unique, handcrafted items",
	"- Each product has an AI-generated story about its creation",
	"- Products are categorized (pottery, jewelry, textiles, etc.)",
	"- Users can browse, search, and add items to cart",
	"- The platform supports multiple languages and currencies (INR)",
	"- Artisans can manage their product listings",
	"- Buyers get personalized recommendations",
}

package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikolayk812/voiceshop/internal/catalog"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/nikolayk812/voiceshop/internal/service"
	"github.com/sirupsen/logrus"
)

const maxListed = 8

const storageUnavailable = "I am having difficulty accessing the order data storage right now. Please try again shortly."

type shopTools struct {
	shop     *service.Shop
	shopName string
}

// ShopTools returns the browse, cart and checkout tools.
func ShopTools(shop *service.Shop, shopName string) []Tool {
	st := &shopTools{shop: shop, shopName: shopName}

	return []Tool{
		{
			Name: "show_catalog",
			Description: "Show the product catalog. Call it whenever the customer asks for a product, " +
				"wants to browse, or mentions a product name or type. Call with no arguments to list everything.",
			Parameters: object(nil, map[string]any{
				"q":         prop("string", "Search text matched against product names, descriptions and categories (e.g. 'gloves', 'wool shawl')."),
				"category":  prop("string", "Product category (e.g. 'gloves', 'shawl', 'blanket', 'mug', 'tshirt', 'hoodie')."),
				"max_price": prop("integer", "Maximum price."),
				"color":     prop("string", "Color."),
				"size":      prop("string", "Size label, exactly as listed (e.g. 'M', 'XL', 'King')."),
			}),
			Handler: st.showCatalog,
		},
		{
			Name:        "add_to_cart",
			Description: "Add a product to the customer's cart. Use after showing the catalog.",
			Parameters: object([]string{"product_ref"}, map[string]any{
				"product_ref": prop("string", "Product id (e.g. 'glove-001'), name, category, or a spoken reference like 'the second one'."),
				"quantity":    prop("integer", "Quantity to add, default 1."),
				"size":        prop("string", "Size if applicable."),
			}),
			Handler: st.addToCart,
		},
		{
			Name:        "show_cart",
			Description: "Show the current cart contents and total.",
			Parameters:  object(nil, map[string]any{}),
			Handler:     st.showCart,
		},
		{
			Name:        "clear_cart",
			Description: "Empty the cart.",
			Parameters:  object(nil, map[string]any{}),
			Handler:     st.clearCart,
		},
		{
			Name:        "place_order",
			Description: "Place an order for everything in the cart.",
			Parameters: object(nil, map[string]any{
				"confirm": prop("boolean", "Confirm order placement, default true."),
			}),
			Handler: st.placeOrder,
		},
		{
			Name:        "last_order",
			Description: "Describe the most recent order.",
			Parameters:  object(nil, map[string]any{}),
			Handler:     st.lastOrder,
		},
	}
}

func (st *shopTools) showCatalog(_ context.Context, _ *domain.Session, args Args) (string, error) {
	var (
		f   catalog.Filter
		err error
	)
	for key, dst := range map[string]*string{
		"q":         &f.Query,
		"category":  &f.Category,
		"max_price": &f.MaxPrice,
		"color":     &f.Color,
		"size":      &f.Size,
	} {
		if *dst, err = args.Text(key); err != nil {
			return "", err
		}
	}

	products := st.shop.Browse(f)
	if len(products) == 0 {
		return "Sorry, I couldn't find any items that match. Would you like to try another search?", nil
	}

	shown := min(maxListed, len(products))
	lines := []string{fmt.Sprintf("%s: Here are the top %d items I found:", st.shopName, shown)}
	for i, p := range products[:shown] {
		sizes := ""
		if p.Sized() {
			sizes = fmt.Sprintf(" (sizes: %s)", strings.Join(p.Sizes, ", "))
		}
		lines = append(lines, fmt.Sprintf("%d. %s: %s (id: %s)%s", i+1, p.Name, p.Price, p.ID, sizes))
	}
	lines = append(lines, "You can say: 'Add the second item to my cart' or 'add glove-001 to my cart, quantity 2'.")

	return strings.Join(lines, "\n"), nil
}

func (st *shopTools) addToCart(_ context.Context, session *domain.Session, args Args) (string, error) {
	ref, err := args.Text("product_ref")
	if err != nil {
		return "", err
	}
	quantity, err := args.Int("quantity", 1)
	if err != nil {
		return "", err
	}
	size, err := args.Text("size")
	if err != nil {
		return "", err
	}

	p, err := st.shop.AddToCart(session, ref, quantity, size)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "The quantity needs to be at least one. How many would you like?", nil
	case errors.Is(err, domain.ErrNotFound):
		if found := st.shop.Suggest(ref); len(found) > 0 {
			return fmt.Sprintf("I found %d matching product(s). Please say 'show catalog' with category '%s' to see them, "+
				"or be more specific with the product name or id.", len(found), ref), nil
		}
		return fmt.Sprintf("I couldn't find a product matching '%s'. Try saying 'show catalog' to browse available items, "+
			"or use a specific product id (like 'glove-001').", ref), nil
	case err != nil:
		return "", err
	}

	return fmt.Sprintf("Added %d x %s to your cart. What would you like to do next?", quantity, p.Name), nil
}

func (st *shopTools) showCart(_ context.Context, session *domain.Session, _ Args) (string, error) {
	view := st.shop.CartView(session)
	if view.IsEmpty() {
		return "Your cart is empty. Say 'show catalog' to browse items.", nil
	}

	lines := []string{"Items in your cart:"}
	for _, l := range view.Lines {
		size := ""
		if l.Size != "" {
			size = ", size " + l.Size
		}
		lines = append(lines, fmt.Sprintf("- %s x %d%s: %s", l.Product.Name, l.Quantity, size, l.LineTotal))
	}
	lines = append(lines,
		fmt.Sprintf("Cart total: %s", view.Total),
		"Say 'place my order' to checkout or 'clear cart' to empty the cart.")

	return strings.Join(lines, "\n"), nil
}

func (st *shopTools) clearCart(_ context.Context, session *domain.Session, _ Args) (string, error) {
	st.shop.ClearCart(session)
	return "Your cart has been cleared. What would you like to do next?", nil
}

func (st *shopTools) placeOrder(ctx context.Context, session *domain.Session, args Args) (string, error) {
	confirm, err := args.Bool("confirm", true)
	if err != nil {
		return "", err
	}
	if !confirm {
		return "No problem, I haven't placed anything. Say 'place my order' when you're ready.", nil
	}
	if session.Cart.IsEmpty() {
		return "Your cart is empty, so there is nothing to place. Would you like to browse items?", nil
	}

	order, err := st.shop.PlaceOrder(ctx, session)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "Some items in your cart are no longer available. Please clear the cart and add them again.", nil
	case err != nil:
		log.With("shop_tools").WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err,
		}).Error("order placement failed")
		return storageUnavailable, nil
	}

	return fmt.Sprintf("Order placed. Order ID %s. Total %s. Thank you for shopping at %s!",
		order.ID, order.TotalMoney(), st.shopName), nil
}

func (st *shopTools) lastOrder(ctx context.Context, session *domain.Session, _ Args) (string, error) {
	order, ok, err := st.shop.LastOrder(ctx)
	if err != nil {
		log.With("shop_tools").WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err,
		}).Error("order lookup failed")
		return storageUnavailable, nil
	}
	if !ok {
		return "You have no past orders yet.", nil
	}

	lines := []string{fmt.Sprintf("Most recent order: %s, placed %s", order.ID, order.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))}
	for _, l := range order.Items {
		lines = append(lines, fmt.Sprintf("- %s x %d: %s %s", l.Name, l.Quantity, l.LineTotal, order.Currency))
	}
	lines = append(lines, fmt.Sprintf("Total: %s", order.TotalMoney()))

	return strings.Join(lines, "\n"), nil
}

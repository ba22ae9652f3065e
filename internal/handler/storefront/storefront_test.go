package storefront_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrmart12/nayos/internal/cart"
	"github.com/jrmart12/nayos/internal/catalog"
	"github.com/jrmart12/nayos/internal/checkout"
	"github.com/jrmart12/nayos/internal/delivery"
	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/handler/storefront"
	"github.com/jrmart12/nayos/internal/receipt"
	"github.com/jrmart12/nayos/internal/router"
	"github.com/jrmart12/nayos/internal/settings"
	"github.com/jrmart12/nayos/internal/snapshot"
	"github.com/jrmart12/nayos/internal/storage"
)

func wingsProduct() *domain.Product {
	return &domain.Product{
		ID:   "prod_1",
		Slug: "alitas",
		Name: "Alitas",
		Unit: "orden",
		Cuts: []domain.Cut{
			{Weight: "6 unidades", PriceCents: 16500, InStock: true},
			{Weight: "12 unidades", PriceCents: 33000, InStock: true},
		},
		Options: []domain.OptionGroup{
			{
				Name:     "Salsas",
				Required: true,
				Multiple: true,
				Choices: []domain.Choice{
					{Label: "BBQ"},
					{Label: "Buffalo"},
					{Label: "Mango Habanero"},
				},
			},
		},
		AllowSpecialInstructions: true,
	}
}

func testCatalog() *catalog.MockCatalog {
	return &catalog.MockCatalog{
		GetProductFunc: func(ctx context.Context, slug string) (*domain.Product, error) {
			if slug == "alitas" {
				return wingsProduct(), nil
			}
			return nil, domain.ErrProductNotFound
		},
		ListProductsFunc: func(ctx context.Context) ([]domain.Product, error) {
			return []domain.Product{*wingsProduct()}, nil
		},
	}
}

// client wraps an httptest server with cookie persistence so a test acts as
// one shopper across requests.
type client struct {
	t       *testing.T
	srv     *httptest.Server
	cookies []*http.Cookie
}

func newClient(t *testing.T) (*client, *storage.Mock) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := snapshot.NewMockStore()
	blobs := storage.NewMock()

	cfg, err := settings.New("")
	require.NoError(t, err)

	carts := cart.NewService(store, logger)
	quoter := delivery.NewBridgeZoneQuoter(delivery.LaCeibaBridges, delivery.DefaultPrices)
	checkouts := checkout.NewManager(carts, store, cfg, quoter, logger, checkout.Config{})
	uploader := receipt.NewUploader(blobs)

	h := storefront.NewHandler(testCatalog(), carts, checkouts, uploader, cfg, logger, storefront.Config{})
	r := router.New()
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &client{t: t, srv: srv}, blobs
}

func (c *client) do(method, path string, body io.Reader, contentType string) *http.Response {
	c.t.Helper()

	req, err := http.NewRequest(method, c.srv.URL+path, body)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	if set := resp.Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return resp
}

func (c *client) json(method, path string, payload interface{}) *http.Response {
	c.t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}
	return c.do(method, path, body, "application/json")
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func addWings(t *testing.T, c *client, qty int) {
	t.Helper()

	resp := c.json(http.MethodPost, "/api/cart/lines", map[string]interface{}{
		"slug":       "alitas",
		"cut_weight": "12 unidades",
		"options": []map[string]interface{}{
			{"group": "Salsas", "labels": []string{"BBQ"}},
		},
		"quantity": qty,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestListProducts(t *testing.T) {
	c, _ := newClient(t)

	resp := c.do(http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Products []domain.Product `json:"products"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "alitas", body.Products[0].Slug)
}

func TestGetProduct_NotFound(t *testing.T) {
	c, _ := newClient(t)

	resp := c.do(http.MethodGet, "/api/products/nope", nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, resp, &body)
	assert.Equal(t, domain.ENOTFOUND, body.Error.Code)
}

func TestAddLine_MergesIdenticalConfigurations(t *testing.T) {
	c, _ := newClient(t)

	addWings(t, c, 1)
	addWings(t, c, 2)

	resp := c.do(http.MethodGet, "/api/cart", nil, "")
	var body struct {
		Lines         []domain.Line `json:"lines"`
		ItemCount     int           `json:"item_count"`
		SubtotalCents int64         `json:"subtotal_cents"`
	}
	decode(t, resp, &body)

	require.Len(t, body.Lines, 1)
	assert.Equal(t, 3, body.ItemCount)
	assert.Equal(t, int64(99000), body.SubtotalCents)
}

func TestAddLine_MissingRequiredGroup(t *testing.T) {
	c, _ := newClient(t)

	resp := c.json(http.MethodPost, "/api/cart/lines", map[string]interface{}{
		"slug":       "alitas",
		"cut_weight": "12 unidades",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "Por favor completa todas las opciones requeridas", body.Error.Message)
}

func TestAddLine_SauceLimitRejected(t *testing.T) {
	c, _ := newClient(t)

	// 6 unidades allows a single sauce.
	resp := c.json(http.MethodPost, "/api/cart/lines", map[string]interface{}{
		"slug":       "alitas",
		"cut_weight": "6 unidades",
		"options": []map[string]interface{}{
			{"group": "Salsas", "labels": []string{"BBQ", "Buffalo"}},
		},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "Para 6 unidades, solo puedes elegir hasta 1 salsa.", body.Error.Message)
}

func TestUpdateAndRemoveLine(t *testing.T) {
	c, _ := newClient(t)
	addWings(t, c, 1)

	resp := c.do(http.MethodGet, "/api/cart", nil, "")
	var view struct {
		Lines []domain.Line `json:"lines"`
	}
	decode(t, resp, &view)
	require.Len(t, view.Lines, 1)
	key := view.Lines[0].Key

	resp = c.json(http.MethodPut, "/api/cart/lines/"+key, map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		ItemCount int `json:"item_count"`
	}
	decode(t, resp, &updated)
	assert.Equal(t, 5, updated.ItemCount)

	resp = c.do(http.MethodDelete, "/api/cart/lines/"+key, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var emptied struct {
		Lines []domain.Line `json:"lines"`
	}
	decode(t, resp, &emptied)
	assert.Empty(t, emptied.Lines)
}

func TestOpenCheckout_EmptyCart(t *testing.T) {
	c, _ := newClient(t)

	resp := c.json(http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "El carrito está vacío", body.Error.Message)
}

func TestSubmit_ValidationCollectsFields(t *testing.T) {
	c, _ := newClient(t)
	addWings(t, c, 1)

	resp := c.json(http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = c.json(http.MethodPost, "/api/checkout/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	decode(t, resp, &body)
	assert.Equal(t, domain.EINVALID, body.Error.Code)
	assert.Contains(t, body.Error.Fields, "name")
	assert.Contains(t, body.Error.Fields, "phone")
	assert.Contains(t, body.Error.Fields, "address")
	assert.Contains(t, body.Error.Fields, "payment_method")
}

func TestCheckoutFlow_CashDelivery(t *testing.T) {
	c, _ := newClient(t)
	addWings(t, c, 2)

	resp := c.json(http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = c.json(http.MethodPut, "/api/checkout/draft", map[string]interface{}{
		"name":           "Ana López",
		"phone":          "33025597",
		"address":        "Col. El Sauce, bloque 4",
		"coordinates":    map[string]float64{"lat": 15.77, "lng": -86.79},
		"payment_method": "cash",
		"cash_change":    "500",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		DeliveryCents int64 `json:"delivery_cents"`
		TotalCents    int64 `json:"total_cents"`
	}
	decode(t, resp, &view)
	assert.Equal(t, int64(5000), view.DeliveryCents)
	assert.Equal(t, int64(71000), view.TotalCents)

	resp = c.json(http.MethodPost, "/api/checkout/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		WhatsAppURL string `json:"whatsapp_url"`
		TotalCents  int64  `json:"total_cents"`
	}
	decode(t, resp, &out)
	assert.Equal(t, int64(71000), out.TotalCents)
	assert.True(t, strings.HasPrefix(out.WhatsAppURL, "https://wa.me/50433025597?text="))
	assert.Contains(t, out.WhatsAppURL, "Ana%20L%C3%B3pez")
}

func TestCheckoutFlow_PickupSkipsDelivery(t *testing.T) {
	c, _ := newClient(t)
	addWings(t, c, 1)

	resp := c.json(http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = c.json(http.MethodPut, "/api/checkout/draft", map[string]interface{}{
		"name":            "Ana",
		"phone":           "33025597",
		"delivery_method": "pickup",
		"payment_method":  "cash",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		DeliveryCents int64 `json:"delivery_cents"`
		TotalCents    int64 `json:"total_cents"`
	}
	decode(t, resp, &view)
	assert.Zero(t, view.DeliveryCents)
	assert.Equal(t, int64(33000), view.TotalCents)

	resp = c.json(http.MethodPost, "/api/checkout/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func multipartReceipt(t *testing.T, data []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("receipt", "receipt.jpg")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadReceipt_AttachesToDraft(t *testing.T) {
	c, _ := newClient(t)
	addWings(t, c, 1)

	resp := c.json(http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	body, contentType := multipartReceipt(t, jpegBytes(t, 64, 64))
	resp = c.do(http.MethodPost, "/api/checkout/receipt", body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		ReceiptURL   string `json:"receipt_url"`
		UploadStatus string `json:"upload_status"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "succeeded", out.UploadStatus)
	assert.True(t, strings.HasPrefix(out.ReceiptURL, "https://cdn.test/receipts/"))

	resp = c.do(http.MethodGet, "/api/checkout", nil, "")
	var view struct {
		Draft domain.OrderDraft `json:"draft"`
	}
	decode(t, resp, &view)
	assert.Equal(t, out.ReceiptURL, view.Draft.ReceiptURL)
}

func TestUploadReceipt_RejectsGarbage(t *testing.T) {
	c, _ := newClient(t)
	addWings(t, c, 1)

	resp := c.json(http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	body, contentType := multipartReceipt(t, []byte("not an image"))
	resp = c.do(http.MethodPost, "/api/checkout/receipt", body, contentType)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The failed upload must not block a retry.
	body, contentType = multipartReceipt(t, jpegBytes(t, 32, 32))
	resp = c.do(http.MethodPost, "/api/checkout/receipt", body, contentType)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCloseCheckout_PurgesDraft(t *testing.T) {
	c, _ := newClient(t)
	addWings(t, c, 1)

	resp := c.json(http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = c.json(http.MethodPut, "/api/checkout/draft", map[string]interface{}{
		"name":           "Ana",
		"phone":          "33025597",
		"address":        "Col. El Sauce",
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = c.do(http.MethodDelete, "/api/checkout", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Draft domain.OrderDraft `json:"draft"`
	}
	decode(t, resp, &view)
	assert.Equal(t, "Ana", view.Draft.Name)
	assert.Equal(t, "33025597", view.Draft.Phone)
	assert.Empty(t, view.Draft.Address)
	assert.Empty(t, view.Draft.PaymentMethod)
}

func TestSessionCookie_MintedOnce(t *testing.T) {
	c, _ := newClient(t)

	resp := c.do(http.MethodGet, "/api/cart", nil, "")
	resp.Body.Close()
	require.Len(t, c.cookies, 1)
	assert.Equal(t, "nayos_session", c.cookies[0].Name)
	first := c.cookies[0].Value

	addWings(t, c, 1)

	resp = c.do(http.MethodGet, "/api/cart", nil, "")
	var view struct {
		ItemCount int `json:"item_count"`
	}
	decode(t, resp, &view)
	assert.Equal(t, 1, view.ItemCount)
	assert.Equal(t, first, c.cookies[0].Value)
}

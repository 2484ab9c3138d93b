package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/online-bookstore/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/online-bookstore/internal/errors"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	"github.com/aaravmahajanofficial/online-bookstore/internal/services/mocks"
	"github.com/aaravmahajanofficial/online-bookstore/internal/testutils"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils/response"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUsername = "reader"

func setupCartTest() (*mocks.CartService, *handlers.CartHandler) {
	mockCartService := new(mocks.CartService)
	return mockCartService, handlers.NewCartHandler(mockCartService)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	return resp
}

// decodeData re-marshals the untyped Data field into dest.
func decodeData(t *testing.T, resp response.APIResponse, dest any) {
	t.Helper()

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

func sampleCart() *models.Cart {
	price := decimal.RequireFromString("12.50")
	return &models.Cart{
		ID:     11,
		UserID: 1,
		Items: []models.CartLine{
			{ID: 1, CartID: 11, Book: models.Book{ID: 5, Name: "Dune", Price: price}, Quantity: 2, TotalAmount: decimal.RequireFromString("25.00")},
		},
		TotalAmount: decimal.RequireFromString("25.00"),
	}
}

func TestGetCart(t *testing.T) {
	t.Run("Success - Retrieve Cart", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/cart", nil, testUsername, nil)
		rr := httptest.NewRecorder()

		mockCartService.On("GetCart", mock.Anything, testUsername).Return(sampleCart(), nil).Once()

		// Act
		cartHandler.GetCart()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeResponse(t, rr)
		assert.True(t, resp.Success)

		var cart models.Cart
		decodeData(t, resp, &cart)
		assert.Equal(t, int64(11), cart.ID)
		require.Len(t, cart.Items, 1)
		assert.True(t, decimal.RequireFromString("25").Equal(cart.TotalAmount))

		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resp := decodeResponse(t, rr)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error.Message, "Authentication required")
		mockCartService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - User Not Found", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/cart", nil, testUsername, nil)
		rr := httptest.NewRecorder()

		mockCartService.On("GetCart", mock.Anything, testUsername).Return(nil, appErrors.UserNotFoundError("User not found")).Once()

		// Act
		cartHandler.GetCart()(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		resp := decodeResponse(t, rr)
		assert.Equal(t, appErrors.ErrCodeUserNotFound, resp.Error.Code)
	})
}

func TestAddItem(t *testing.T) {
	t.Run("Success - Item Added", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		body, _ := json.Marshal(models.AddItemRequest{BookID: 5})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body), testUsername, nil)
		rr := httptest.NewRecorder()

		mockCartService.On("AddItem", mock.Anything, testUsername, int64(5)).Return(sampleCart(), nil).Once()

		// Act
		cartHandler.AddItem()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decodeResponse(t, rr).Success)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Missing Book ID", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{}`)), testUsername, nil)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeResponse(t, rr)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Malformed Body", func(t *testing.T) {
		// Arrange
		_, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{"book_id":`)), testUsername, nil)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeBadRequest, decodeResponse(t, rr).Error.Code)
	})

	t.Run("Failure - Book Not Found", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		body, _ := json.Marshal(models.AddItemRequest{BookID: 404})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body), testUsername, nil)
		rr := httptest.NewRecorder()

		mockCartService.On("AddItem", mock.Anything, testUsername, int64(404)).Return(nil, appErrors.BookNotFoundError("Book not found")).Once()

		// Act
		cartHandler.AddItem()(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, appErrors.ErrCodeBookNotFound, decodeResponse(t, rr).Error.Code)
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("Success - Item Removed", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/items/5", nil, testUsername, map[string]string{"bookId": "5"})
		rr := httptest.NewRecorder()

		cart := sampleCart()
		cart.Items[0].Quantity = 1
		mockCartService.On("RemoveItem", mock.Anything, testUsername, int64(5)).Return(cart, nil).Once()

		// Act
		cartHandler.RemoveItem()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Book ID", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/items/abc", nil, testUsername, map[string]string{"bookId": "abc"})
		rr := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem()(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCartService.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Item Not In Cart", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/items/9", nil, testUsername, map[string]string{"bookId": "9"})
		rr := httptest.NewRecorder()

		mockCartService.On("RemoveItem", mock.Anything, testUsername, int64(9)).Return(nil, appErrors.ItemNotFoundError("Item not found in the cart")).Once()

		// Act
		cartHandler.RemoveItem()(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, appErrors.ErrCodeItemNotFound, decodeResponse(t, rr).Error.Code)
	})
}

func TestClearCart(t *testing.T) {
	t.Run("Success - Cart Cleared", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart", nil, testUsername, nil)
		rr := httptest.NewRecorder()

		mockCartService.On("ClearCart", mock.Anything, testUsername).Return(&models.Cart{ID: 11, UserID: 1, Items: []models.CartLine{}}, nil).Once()

		// Act
		cartHandler.ClearCart()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var cart models.Cart
		decodeData(t, decodeResponse(t, rr), &cart)
		assert.Empty(t, cart.Items)
		assert.True(t, cart.TotalAmount.IsZero())
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart", nil, testUsername, nil)
		rr := httptest.NewRecorder()

		mockCartService.On("ClearCart", mock.Anything, testUsername).Return(nil, appErrors.DatabaseError("Failed to clear cart")).Once()

		// Act
		cartHandler.ClearCart()(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, decodeResponse(t, rr).Error.Code)
	})
}

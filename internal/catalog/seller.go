package catalog

import (
	"context"
	"io"
	"log/slog"

	"github.com/ariefcatur/haritham-market/internal/forms"
	"github.com/ariefcatur/haritham-market/internal/market"
)

type SellerAPI interface {
	SellerProducts(ctx context.Context, sellerID string) ([]market.Product, error)
	GetProduct(ctx context.Context, id string) (market.Product, error)
	AddProduct(ctx context.Context, p market.Product) error
	UpdateProduct(ctx context.Context, p market.Product) error
	DeleteProduct(ctx context.Context, id string) error
	SetVisibility(ctx context.Context, id string, visible bool) error
	ProductOrders(ctx context.Context, productID string) ([]market.Order, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Image is an uploaded file not yet sent to the image host.
type Image struct {
	Filename string
	Body     io.Reader
}

// Desk is the seller's product management. Every mutation returns the
// seller's product list as the backend reports it afterwards.
type Desk struct {
	API    SellerAPI
	Images ImageUploader
	Log    *slog.Logger
}

func (d *Desk) List(ctx context.Context, sellerID string) ([]market.Product, error) {
	return d.API.SellerProducts(ctx, sellerID)
}

func (d *Desk) Create(ctx context.Context, sellerID string, f forms.ProductForm, img *Image) ([]market.Product, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if img == nil || img.Body == nil {
		return nil, ErrImageRequired
	}
	url, err := d.Images.Upload(ctx, img.Filename, img.Body)
	if err != nil {
		d.Log.Error("image upload failed", "seller_id", sellerID, "err", err)
		return nil, err
	}
	p := f.Product(sellerID, url)
	if err := d.API.AddProduct(ctx, p); err != nil {
		d.Log.Error("add product failed", "seller_id", sellerID, "err", err)
		return nil, err
	}
	d.Log.Info("product added", "seller_id", sellerID, "name", p.Name)
	return d.List(ctx, sellerID)
}

// Update applies the edit. A new image, when given, replaces the old URL.
func (d *Desk) Update(ctx context.Context, sellerID, productID string, e forms.ProductEdit, img *Image) ([]market.Product, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	cur, err := d.owned(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if img != nil && img.Body != nil {
		url, err := d.Images.Upload(ctx, img.Filename, img.Body)
		if err != nil {
			d.Log.Error("image upload failed", "seller_id", sellerID, "product_id", productID, "err", err)
			return nil, err
		}
		e.ImageURL = url
	}
	if err := d.API.UpdateProduct(ctx, e.Apply(cur)); err != nil {
		d.Log.Error("update product failed", "product_id", productID, "err", err)
		return nil, err
	}
	return d.List(ctx, sellerID)
}

func (d *Desk) Delete(ctx context.Context, sellerID, productID string, confirmed bool) ([]market.Product, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	if _, err := d.owned(ctx, sellerID, productID); err != nil {
		return nil, err
	}
	if err := d.API.DeleteProduct(ctx, productID); err != nil {
		d.Log.Error("delete product failed", "product_id", productID, "err", err)
		return nil, err
	}
	d.Log.Info("product deleted", "seller_id", sellerID, "product_id", productID)
	return d.List(ctx, sellerID)
}

func (d *Desk) SetVisibility(ctx context.Context, sellerID, productID string, visible bool) ([]market.Product, error) {
	if _, err := d.owned(ctx, sellerID, productID); err != nil {
		return nil, err
	}
	if err := d.API.SetVisibility(ctx, productID, visible); err != nil {
		d.Log.Error("set visibility failed", "product_id", productID, "visible", visible, "err", err)
		return nil, err
	}
	return d.List(ctx, sellerID)
}

// Orders lists the orders placed for one of the seller's products, latest first.
func (d *Desk) Orders(ctx context.Context, sellerID, productID string) ([]market.Order, error) {
	if _, err := d.owned(ctx, sellerID, productID); err != nil {
		return nil, err
	}
	orders, err := d.API.ProductOrders(ctx, productID)
	if err != nil {
		return nil, err
	}
	market.SortOrdersLatestFirst(orders)
	return orders, nil
}

func (d *Desk) owned(ctx context.Context, sellerID, productID string) (market.Product, error) {
	p, err := d.API.GetProduct(ctx, productID)
	if err != nil {
		return p, err
	}
	if p.SellerID != sellerID {
		return p, ErrNotOwner
	}
	return p, nil
}

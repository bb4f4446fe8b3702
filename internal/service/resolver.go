package service

import (
	"context"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
)

// resolver joins ledger entries with party and product summaries using one
// batched lookup per entity kind.
type resolver struct {
	products repository.ProductRepository
	contacts repository.ContactRepository
}

type lookups struct {
	products map[uuid.UUID]model.Product
	contacts map[uuid.UUID]model.Contact
}

func (r resolver) load(ctx context.Context, tenantID uuid.UUID, txs []model.Transaction) (*lookups, error) {
	productIDs := make([]uuid.UUID, 0)
	contactIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for i := range txs {
		if id := txs[i].PartyID(); id != uuid.Nil && !seen[id] {
			seen[id] = true
			contactIDs = append(contactIDs, id)
		}
		for _, li := range txs[i].LineItems {
			if !seen[li.ProductID] {
				seen[li.ProductID] = true
				productIDs = append(productIDs, li.ProductID)
			}
		}
	}

	products, err := r.products.FindByIDs(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	contacts, err := r.contacts.FindByIDs(ctx, tenantID, contactIDs)
	if err != nil {
		return nil, err
	}
	return &lookups{products: products, contacts: contacts}, nil
}

func (r resolver) views(ctx context.Context, tenantID uuid.UUID, txs []model.Transaction) ([]model.TransactionView, *lookups, error) {
	l, err := r.load(ctx, tenantID, txs)
	if err != nil {
		return nil, nil, err
	}
	views := make([]model.TransactionView, len(txs))
	for i := range txs {
		views[i] = l.view(&txs[i])
	}
	return views, l, nil
}

func (l *lookups) view(tx *model.Transaction) model.TransactionView {
	v := model.TransactionView{
		ID:          tx.ID,
		Type:        tx.Type,
		CustomerID:  tx.CustomerID,
		VendorID:    tx.VendorID,
		LineItems:   make([]model.LineItemView, len(tx.LineItems)),
		TotalAmount: model.Round2(tx.TotalAmount),
		Date:        tx.Date,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
	if c, ok := l.contacts[tx.PartyID()]; ok {
		if tx.Type == model.TxSale {
			v.Customer = c.Summary()
		} else {
			v.Vendor = c.Summary()
		}
	}
	for i := range tx.LineItems {
		li := &tx.LineItems[i]
		item := model.LineItemView{
			ProductID: li.ProductID,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Subtotal:  model.Round2(li.Subtotal()),
		}
		if p, ok := l.products[li.ProductID]; ok {
			item.Product = p.Summary()
		}
		v.LineItems[i] = item
	}
	return v
}

package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/nkropachev/eshop/internal/models"
)

// Indexer keeps the product index in step with the catalog. Mutating
// handlers call it best-effort after the database write.
type Indexer struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	return &Indexer{ES: client, IndexName: index}
}

// productDoc is the searchable projection of a product.
type productDoc struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	CategoryID  uint    `json:"categoryId"`
	IsFeatured  bool    `json:"isFeatured"`
}

func (ix *Indexer) Index(ctx context.Context, p *models.Product) error {
	doc := productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		IsFeatured:  p.IsFeatured,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	res, err := ix.ES.Index(
		ix.IndexName,
		&buf,
		ix.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func (ix *Indexer) Delete(ctx context.Context, id uint) error {
	res, err := ix.ES.Delete(
		ix.IndexName,
		strconv.FormatUint(uint64(id), 10),
		ix.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// Deleting a document that was never indexed is not a failure.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product %d from index: %s", id, res.Status())
	}
	return nil
}

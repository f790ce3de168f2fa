package reports

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var sayHelloTemplate = template.Must(template.ParseFS(templateFS, "templates/say_hello.html"))

// OrderedProduct is one row of the say_hello orders result.
type OrderedProduct struct {
	ProductID uint `json:"product__id"`
}

// SayHello is the say_hello template context.
type SayHello struct {
	Orders []OrderedProduct `json:"orders"`
}

// Service builds and renders the playground reports.
type Service interface {
	SayHello(ctx context.Context) (*SayHello, error)
	RenderSayHello(ctx context.Context) ([]byte, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a report service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository required")
	}
	return &service{repo: repo}, nil
}

// SayHello defines the product queries and evaluates only the ordered products.
func (s *service) SayHello(ctx context.Context) (*SayHello, error) {
	_ = s.repo.ProductsByTitle(ctx)
	_ = s.repo.LowInventoryProducts(ctx)

	ids, err := s.repo.OrderedProductIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ordered products")
	}
	out := &SayHello{Orders: make([]OrderedProduct, 0, len(ids))}
	for _, id := range ids {
		out.Orders = append(out.Orders, OrderedProduct{ProductID: id})
	}
	return out, nil
}

func (s *service) RenderSayHello(ctx context.Context) ([]byte, error) {
	data, err := s.SayHello(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := sayHelloTemplate.Execute(&buf, data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render say_hello")
	}
	return buf.Bytes(), nil
}

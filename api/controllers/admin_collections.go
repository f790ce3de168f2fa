package controllers

import (
	"github.com/angelmondragon/storefront-admin/internal/collections"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

// CollectionAdmin is the collection model admin.
type CollectionAdmin = ModelAdmin[*collections.CollectionList, *collections.CollectionDTO, collections.CollectionInput, collectionRequest]

// NewCollectionAdmin wires the collection views.
func NewCollectionAdmin(svc collections.Service, logg *logger.Logger) *CollectionAdmin {
	return newModelAdmin[*collections.CollectionList, *collections.CollectionDTO, collections.CollectionInput, collectionRequest](collections.Admin, svc, logg)
}

type collectionRequest struct {
	Title string `json:"title" validate:"required"`
}

func (r collectionRequest) toInput() (collections.CollectionInput, error) {
	return collections.CollectionInput{Title: r.Title}, nil
}

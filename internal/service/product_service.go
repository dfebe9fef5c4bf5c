package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/alimikegami/e-commerce/storefront-service/internal/repository"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductServiceImpl struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	storage     ImageStorage
	emitter     *EventEmitter
}

func CreateProductService(productRepo repository.ProductRepository, userRepo repository.UserRepository, storage ImageStorage, emitter *EventEmitter) ProductService {
	return &ProductServiceImpl{productRepo: productRepo, userRepo: userRepo, storage: storage, emitter: emitter}
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context, filter pkgdto.Filter) (resp pkgdto.PaginationResponse, err error) {
	if _, err = currentIdentity(ctx); err != nil {
		return
	}

	filter = filter.Normalize()
	products, total, err := s.productRepo.GetProducts(ctx, filter)
	if err != nil {
		return resp, errs.ErrInternalServer
	}

	records := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		records = append(records, toProductResponse(p))
	}

	return pkgdto.NewPaginationResponse(filter, total, records), nil
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id string) (resp dto.ProductResponse, err error) {
	if _, err = currentIdentity(ctx); err != nil {
		return
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return resp, storeError(err)
	}

	return toProductResponse(product), nil
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, req dto.ProductRequest, image *dto.FileUpload) (resp dto.ProductResponse, err error) {
	identity, err := requireAdmin(ctx)
	if err != nil {
		return
	}

	creator, err := callerObjectID(identity)
	if err != nil {
		return
	}

	if image == nil {
		return resp, errs.ErrNoFileSelected
	}

	imagePath, err := s.storage.Save(ctx, *image)
	if err != nil {
		return resp, uploadError(err)
	}

	product := domain.Product{
		User:         creator,
		Name:         strings.TrimSpace(req.Name),
		Image:        imagePath,
		Brand:        strings.TrimSpace(req.Brand),
		Category:     strings.TrimSpace(req.Category),
		Description:  req.Description,
		Reviews:      []domain.Review{},
		Price:        req.Price,
		CountInStock: req.CountInStock,
	}

	product.ID, err = s.productRepo.AddProduct(ctx, product)
	if err != nil {
		s.removeImage(ctx, imagePath)
		return resp, errs.ErrInternalServer
	}

	product, err = s.productRepo.GetProductByID(ctx, product.ID.Hex())
	if err != nil {
		return resp, storeError(err)
	}

	s.emitter.Emit(ctx, product.ID.Hex(), dto.EventProductCreated, toProductEvent(product))

	return toProductResponse(product), nil
}

// UpdateProduct keeps the current image when no new file is uploaded.
func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, id string, req dto.ProductRequest, image *dto.FileUpload) (resp dto.ProductResponse, err error) {
	if _, err = requireAdmin(ctx); err != nil {
		return
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return resp, storeError(err)
	}

	oldImage := product.Image
	if image != nil {
		product.Image, err = s.storage.Save(ctx, *image)
		if err != nil {
			return resp, uploadError(err)
		}
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Brand = strings.TrimSpace(req.Brand)
	product.Category = strings.TrimSpace(req.Category)
	product.Description = req.Description
	product.Price = req.Price
	product.CountInStock = req.CountInStock

	if err = s.productRepo.UpdateProduct(ctx, product); err != nil {
		if image != nil {
			s.removeImage(ctx, product.Image)
		}
		return resp, storeError(err)
	}

	if image != nil && oldImage != product.Image {
		s.removeImage(ctx, oldImage)
	}

	product, err = s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return resp, storeError(err)
	}

	s.emitter.Emit(ctx, product.ID.Hex(), dto.EventProductUpdated, toProductEvent(product))

	return toProductResponse(product), nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	if _, err = requireAdmin(ctx); err != nil {
		return
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return storeError(err)
	}

	if err = s.productRepo.DeleteProduct(ctx, id); err != nil {
		return storeError(err)
	}

	s.removeImage(ctx, product.Image)
	s.emitter.Emit(ctx, product.ID.Hex(), dto.EventProductDeleted, toProductEvent(product))

	return nil
}

// AddReview appends the caller's review. The reviewer's display name is read
// from the store rather than the token.
func (s *ProductServiceImpl) AddReview(ctx context.Context, id string, req dto.ReviewRequest) (resp dto.ProductResponse, err error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return
	}

	reviewerID, err := callerObjectID(identity)
	if err != nil {
		return
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return resp, storeError(err)
	}

	if product.HasReviewFrom(reviewerID) {
		return resp, errs.ErrAlreadyReviewed
	}

	reviewer, err := s.userRepo.GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return resp, errs.ErrInvalidToken
		}
		return resp, errs.ErrInternalServer
	}

	review := domain.Review{
		ID:        primitive.NewObjectID(),
		Name:      reviewer.Name,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		User:      reviewerID,
		CreatedAt: time.Now().UTC(),
	}

	product, err = s.productRepo.AddReview(ctx, product.ID, review)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyReviewed) {
			return resp, errs.ErrAlreadyReviewed
		}
		return resp, storeError(err)
	}

	s.emitter.Emit(ctx, product.ID.Hex(), dto.EventProductReviewed, toProductEvent(product))

	return toProductResponse(product), nil
}

// ReconcileRatings recomputes numReviews and rating from the stored reviews
// and rewrites products whose aggregates drifted.
func (s *ProductServiceImpl) ReconcileRatings(ctx context.Context) (err error) {
	fixed := 0

	err = s.productRepo.IterateProducts(ctx, func(p domain.Product) error {
		numReviews, rating := CalculateRating(p.Reviews)
		if !ratingDrifted(p, numReviews, rating) {
			return nil
		}

		if err := s.productRepo.UpdateRating(ctx, p.ID, numReviews, rating); err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}
		fixed++
		return nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ReconcileRatings").Msg("")
		return err
	}

	if fixed > 0 {
		log.Ctx(ctx).Info().Str("component", "ReconcileRatings").Int("fixed", fixed).Msg("product ratings reconciled")
	}

	return nil
}

func (s *ProductServiceImpl) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}

	if err := s.storage.Delete(ctx, path); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "RemoveImage").Str("path", path).Msg("")
	}
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotAnImage):
		return errs.ErrNotAnImage
	case errors.Is(err, errs.ErrFileSizeExceedingLimit):
		return errs.ErrFileSizeExceedingLimit
	default:
		return errs.ErrInternalServer
	}
}

func toProductEvent(p domain.Product) dto.ProductEvent {
	return dto.ProductEvent{
		ProductID:  p.ID.Hex(),
		Name:       p.Name,
		Price:      p.Price,
		Rating:     p.Rating,
		NumReviews: p.NumReviews,
	}
}

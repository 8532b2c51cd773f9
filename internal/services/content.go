package services

import (
	"context"
	"strings"

	"github.com/dorothy-center/apiserver/types"
)

// Thin use-case wrappers over the simple CRUD repositories. They
// exist so handlers depend on interfaces and defaults live outside
// the store layer.

type ContactRepository interface {
	List(ctx context.Context, status string) ([]types.Contact, error)
	Get(ctx context.Context, id int) (types.Contact, error)
	Create(ctx context.Context, contact types.Contact) (types.Contact, error)
	Update(ctx context.Context, contact types.Contact) (types.Contact, error)
	Delete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context, status string) (int, error)
}

type ContactService struct {
	repo ContactRepository
}

func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) List(ctx context.Context, status string) ([]types.Contact, error) {
	return s.repo.List(ctx, status)
}

func (s *ContactService) Get(ctx context.Context, id int) (types.Contact, error) {
	return s.repo.Get(ctx, id)
}

func (s *ContactService) Create(ctx context.Context, contact types.Contact) (types.Contact, error) {
	contact.Email = strings.ToLower(strings.TrimSpace(contact.Email))
	contact.Status = types.ContactNew
	return s.repo.Create(ctx, contact)
}

func (s *ContactService) Update(ctx context.Context, contact types.Contact) (types.Contact, error) {
	return s.repo.Update(ctx, contact)
}

func (s *ContactService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ContactService) CountNew(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, types.ContactNew)
}

type GalleryRepository interface {
	List(ctx context.Context, category string) ([]types.GalleryImage, error)
	Get(ctx context.Context, id int) (types.GalleryImage, error)
	Create(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error)
	Update(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type GalleryService struct {
	repo GalleryRepository
}

func NewGalleryService(repo GalleryRepository) *GalleryService {
	return &GalleryService{repo: repo}
}

func (s *GalleryService) List(ctx context.Context, category string) ([]types.GalleryImage, error) {
	return s.repo.List(ctx, category)
}

func (s *GalleryService) Get(ctx context.Context, id int) (types.GalleryImage, error) {
	return s.repo.Get(ctx, id)
}

func (s *GalleryService) Create(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error) {
	return s.repo.Create(ctx, image)
}

func (s *GalleryService) Update(ctx context.Context, image types.GalleryImage) (types.GalleryImage, error) {
	return s.repo.Update(ctx, image)
}

func (s *GalleryService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *GalleryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

type PartnerRepository interface {
	List(ctx context.Context, activeOnly bool) ([]types.Partner, error)
	Get(ctx context.Context, id int) (types.Partner, error)
	Create(ctx context.Context, partner types.Partner) (types.Partner, error)
	Update(ctx context.Context, partner types.Partner) (types.Partner, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type PartnerService struct {
	repo PartnerRepository
}

func NewPartnerService(repo PartnerRepository) *PartnerService {
	return &PartnerService{repo: repo}
}

func (s *PartnerService) List(ctx context.Context, activeOnly bool) ([]types.Partner, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *PartnerService) Get(ctx context.Context, id int) (types.Partner, error) {
	return s.repo.Get(ctx, id)
}

func (s *PartnerService) Create(ctx context.Context, partner types.Partner) (types.Partner, error) {
	return s.repo.Create(ctx, partner)
}

func (s *PartnerService) Update(ctx context.Context, partner types.Partner) (types.Partner, error) {
	return s.repo.Update(ctx, partner)
}

func (s *PartnerService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *PartnerService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

type PostRepository interface {
	List(ctx context.Context, status, category string) ([]types.Post, error)
	Get(ctx context.Context, id int) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) (types.Post, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type PostService struct {
	repo PostRepository
}

func NewPostService(repo PostRepository) *PostService {
	return &PostService{repo: repo}
}

// ListPublic defaults to PUBLISHED posts.
func (s *PostService) ListPublic(ctx context.Context, status, category string) ([]types.Post, error) {
	if status == "" {
		status = types.PostStatusPublished
	}
	return s.repo.List(ctx, status, category)
}

func (s *PostService) ListAll(ctx context.Context, status, category string) ([]types.Post, error) {
	return s.repo.List(ctx, status, category)
}

func (s *PostService) Get(ctx context.Context, id int) (types.Post, error) {
	return s.repo.Get(ctx, id)
}

func (s *PostService) Create(ctx context.Context, post types.Post) (types.Post, error) {
	if post.Status == "" {
		post.Status = types.PostStatusDraft
	}
	return s.repo.Create(ctx, post)
}

func (s *PostService) Update(ctx context.Context, post types.Post) (types.Post, error) {
	return s.repo.Update(ctx, post)
}

func (s *PostService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *PostService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

type TeamRepository interface {
	List(ctx context.Context, activeOnly bool) ([]types.TeamMember, error)
	Get(ctx context.Context, id int) (types.TeamMember, error)
	Create(ctx context.Context, member types.TeamMember) (types.TeamMember, error)
	Update(ctx context.Context, member types.TeamMember) (types.TeamMember, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type TeamService struct {
	repo TeamRepository
}

func NewTeamService(repo TeamRepository) *TeamService {
	return &TeamService{repo: repo}
}

func (s *TeamService) List(ctx context.Context, activeOnly bool) ([]types.TeamMember, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *TeamService) Get(ctx context.Context, id int) (types.TeamMember, error) {
	return s.repo.Get(ctx, id)
}

func (s *TeamService) Create(ctx context.Context, member types.TeamMember) (types.TeamMember, error) {
	return s.repo.Create(ctx, member)
}

func (s *TeamService) Update(ctx context.Context, member types.TeamMember) (types.TeamMember, error) {
	return s.repo.Update(ctx, member)
}

func (s *TeamService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *TeamService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"recetas-api/internal/common"
	"recetas-api/internal/models"
)

// FallbackUser is seeded into every Memory store, matching the postgres
// migration.
var FallbackUser = models.User{
	ID:       1,
	Nombre:   "Sistema",
	Correo:   "sistema@recetas.local",
	Password: "!",
	Estado:   models.StatusActive,
}

// Memory is an in-process store for local runs and tests. It enforces the
// same unique and foreign key rules as the postgres schema.
type Memory struct {
	mu sync.RWMutex

	users      map[uint]models.User
	categories map[uint]models.Category
	recipes    map[uint]models.Recipe
	contacts   map[uint]models.Contact
	nextID     map[string]uint
}

func NewMemory() *Memory {
	m := &Memory{
		users:      map[uint]models.User{},
		categories: map[uint]models.Category{},
		recipes:    map[uint]models.Recipe{},
		contacts:   map[uint]models.Contact{},
		nextID:     map[string]uint{"users": 1, "categories": 0, "recipes": 0, "contacts": 0},
	}
	m.users[FallbackUser.ID] = FallbackUser
	return m
}

func (m *Memory) id(table string) uint {
	m.nextID[table]++
	return m.nextID[table]
}

func memErr(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// Users

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.users {
		if other.Correo == u.Correo {
			return memErr("store.Memory.CreateUser", common.ErrDuplicate)
		}
		if u.Token != nil && other.Token != nil && *other.Token == *u.Token {
			return memErr("store.Memory.CreateUser", common.ErrDuplicate)
		}
	}
	if (u.Estado == models.StatusPending) != (u.Token != nil) {
		return memErr("store.Memory.CreateUser", common.ErrValidation)
	}
	now := time.Now()
	u.ID = m.id("users")
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, correo string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Correo == correo {
			return &u, nil
		}
	}
	return nil, memErr("store.Memory.UserByEmail", common.ErrNotFound)
}

func (m *Memory) ActiveUserByEmail(ctx context.Context, correo string) (*models.User, error) {
	u, err := m.UserByEmail(ctx, correo)
	if err != nil || u.Estado != models.StatusActive {
		return nil, memErr("store.Memory.ActiveUserByEmail", common.ErrNotFound)
	}
	return u, nil
}

func (m *Memory) ActivateUser(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, u := range m.users {
		if u.Estado == models.StatusPending && u.Token != nil && *u.Token == token {
			u.Token = nil
			u.Estado = models.StatusActive
			u.UpdatedAt = time.Now()
			m.users[id] = u
			return nil
		}
	}
	return memErr("store.Memory.ActivateUser", common.ErrNotFound)
}

// Categories

func (m *Memory) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cs := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
	return cs, nil
}

func (m *Memory) CategoryByID(_ context.Context, id uint) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, memErr("store.Memory.CategoryByID", common.ErrNotFound)
	}
	return &c, nil
}

func (m *Memory) CategoryByName(_ context.Context, nombre string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.categories {
		if c.Nombre == nombre {
			return &c, nil
		}
	}
	return nil, memErr("store.Memory.CategoryByName", common.ErrNotFound)
}

func (m *Memory) categoryNameTaken(nombre string, except uint) bool {
	for _, c := range m.categories {
		if c.Nombre == nombre && c.ID != except {
			return true
		}
	}
	return false
}

func (m *Memory) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.categoryNameTaken(c.Nombre, 0) {
		return memErr("store.Memory.CreateCategory", common.ErrDuplicate)
	}
	c.ID = m.id("categories")
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) UpdateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[c.ID]; !ok {
		return memErr("store.Memory.UpdateCategory", common.ErrNotFound)
	}
	if m.categoryNameTaken(c.Nombre, c.ID) {
		return memErr("store.Memory.UpdateCategory", common.ErrDuplicate)
	}
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) DeleteCategory(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return memErr("store.Memory.DeleteCategory", common.ErrNotFound)
	}
	for _, r := range m.recipes {
		if r.CategoriaID == id {
			return memErr("store.Memory.DeleteCategory", common.ErrConflict)
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *Memory) CountRecipesByCategory(_ context.Context, id uint) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, r := range m.recipes {
		if r.CategoriaID == id {
			n++
		}
	}
	return n, nil
}

// Recipes

// withRelations fills the associations the way a gorm Preload would.
func (m *Memory) withRelations(r models.Recipe) models.Recipe {
	r.Categoria = m.categories[r.CategoriaID]
	r.Usuario = m.users[r.UsuarioID]
	return r
}

func (m *Memory) ListRecipes(_ context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(f.Search)
	rs := make([]models.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		if f.CategoriaID != 0 && r.CategoriaID != f.CategoriaID {
			continue
		}
		if f.UsuarioID != 0 && r.UsuarioID != f.UsuarioID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Nombre), search) {
			continue
		}
		rs = append(rs, m.withRelations(r))
	}
	sort.Slice(rs, func(i, j int) bool {
		if f.NewestFirst {
			return rs[i].ID > rs[j].ID
		}
		return rs[i].ID < rs[j].ID
	})
	if f.Limit > 0 && len(rs) > f.Limit {
		rs = rs[:f.Limit]
	}
	return rs, nil
}

func (m *Memory) RecipeByID(_ context.Context, id uint) (*models.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.recipes[id]
	if !ok {
		return nil, memErr("store.Memory.RecipeByID", common.ErrNotFound)
	}
	r = m.withRelations(r)
	return &r, nil
}

func (m *Memory) RecipeByName(_ context.Context, nombre string) (*models.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.recipes {
		if r.Nombre == nombre {
			return &r, nil
		}
	}
	return nil, memErr("store.Memory.RecipeByName", common.ErrNotFound)
}

func (m *Memory) checkRecipe(op string, r *models.Recipe) error {
	if _, ok := m.categories[r.CategoriaID]; !ok {
		return memErr(op, common.ErrReferential)
	}
	if _, ok := m.users[r.UsuarioID]; !ok {
		return memErr(op, common.ErrReferential)
	}
	for _, other := range m.recipes {
		if other.ID == r.ID {
			continue
		}
		if other.Nombre == r.Nombre || (r.Foto != "" && other.Foto == r.Foto) {
			return memErr(op, common.ErrDuplicate)
		}
	}
	return nil
}

func (m *Memory) CreateRecipe(_ context.Context, r *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkRecipe("store.Memory.CreateRecipe", r); err != nil {
		return err
	}
	r.ID = m.id("recipes")
	if r.Fecha.IsZero() {
		r.Fecha = time.Now()
	}
	stored := *r
	stored.Categoria, stored.Usuario = models.Category{}, models.User{}
	m.recipes[r.ID] = stored
	return nil
}

func (m *Memory) UpdateRecipe(_ context.Context, r *models.Recipe) error {
	const op = "store.Memory.UpdateRecipe"
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.recipes[r.ID]
	if !ok {
		return memErr(op, common.ErrNotFound)
	}
	cur.Nombre, cur.Slug, cur.Tiempo, cur.Descripcion, cur.CategoriaID = r.Nombre, r.Slug, r.Tiempo, r.Descripcion, r.CategoriaID
	if err := m.checkRecipe(op, &cur); err != nil {
		return err
	}
	m.recipes[r.ID] = cur
	return nil
}

func (m *Memory) SwapRecipePhoto(_ context.Context, id uint, foto string) (string, error) {
	const op = "store.Memory.SwapRecipePhoto"
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.recipes[id]
	if !ok {
		return "", memErr(op, common.ErrNotFound)
	}
	old := cur.Foto
	cur.Foto = foto
	if err := m.checkRecipe(op, &cur); err != nil {
		return "", err
	}
	m.recipes[id] = cur
	return old, nil
}

func (m *Memory) DeleteRecipe(_ context.Context, id uint) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recipes[id]
	if !ok {
		return "", memErr("store.Memory.DeleteRecipe", common.ErrNotFound)
	}
	delete(m.recipes, id)
	return r.Foto, nil
}

// Contacts

func (m *Memory) CreateContact(_ context.Context, c *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = m.id("contacts")
	if c.Fecha.IsZero() {
		c.Fecha = time.Now()
	}
	m.contacts[c.ID] = *c
	return nil
}

// Contacts returns the stored contact messages ordered by id.
func (m *Memory) Contacts() []models.Contact {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cs := make([]models.Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
	return cs
}

func (m *Memory) UserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, memErr("store.Memory.UserByID", common.ErrNotFound)
	}
	return &u, nil
}

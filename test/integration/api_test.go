// Package integration provides end-to-end tests for the pet adoption API.
// The full router runs against in-memory repositories, so the suite exercises
// the authentication filter, the route policy table and every handler without
// a live database.
package integration

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/petadopt/internal/account/domain"
	accountHTTP "github.com/allisson/petadopt/internal/account/http"
	accountDTO "github.com/allisson/petadopt/internal/account/http/dto"
	accountUsecase "github.com/allisson/petadopt/internal/account/usecase"
	authDTO "github.com/allisson/petadopt/internal/auth/http/dto"
	"github.com/allisson/petadopt/internal/auth/policy"
	authService "github.com/allisson/petadopt/internal/auth/service"
	authUseCase "github.com/allisson/petadopt/internal/auth/usecase"
	blogDomain "github.com/allisson/petadopt/internal/blog/domain"
	blogHTTP "github.com/allisson/petadopt/internal/blog/http"
	blogDTO "github.com/allisson/petadopt/internal/blog/http/dto"
	blogUsecase "github.com/allisson/petadopt/internal/blog/usecase"
	"github.com/allisson/petadopt/internal/config"
	apphttp "github.com/allisson/petadopt/internal/http"
	petDomain "github.com/allisson/petadopt/internal/pet/domain"
	petHTTP "github.com/allisson/petadopt/internal/pet/http"
	petDTO "github.com/allisson/petadopt/internal/pet/http/dto"
	petUsecase "github.com/allisson/petadopt/internal/pet/usecase"

	authHTTP "github.com/allisson/petadopt/internal/auth/http"
)

// passthroughTxManager runs the function directly. The in-memory repositories
// are already atomic per operation.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memoryAccountRepository is a thread-safe in-memory account store.
type memoryAccountRepository struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*accountDomain.Account
}

func newMemoryAccountRepository() *memoryAccountRepository {
	return &memoryAccountRepository{nextID: 1, accounts: make(map[int64]*accountDomain.Account)}
}

func (r *memoryAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == account.Email || existing.Username == account.Username {
			return accountDomain.ErrAccountAlreadyExists
		}
	}
	account.ID = r.nextID
	r.nextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memoryAccountRepository) GetByID(ctx context.Context, id int64) (*accountDomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, accountDomain.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *memoryAccountRepository) GetByEmail(ctx context.Context, email string) (*accountDomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, accountDomain.ErrAccountNotFound
}

func (r *memoryAccountRepository) GetByUsername(ctx context.Context, username string) (*accountDomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Username == username {
			clone := *account
			return &clone, nil
		}
	}
	return nil, accountDomain.ErrAccountNotFound
}

func (r *memoryAccountRepository) Update(ctx context.Context, account *accountDomain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return accountDomain.ErrAccountNotFound
	}
	account.UpdatedAt = time.Now()
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memoryAccountRepository) List(ctx context.Context, offset, limit int) ([]*accountDomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.accounts))
	for id := range r.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	accounts := make([]*accountDomain.Account, 0, limit)
	for i := offset; i < len(ids) && len(accounts) < limit; i++ {
		clone := *r.accounts[ids[i]]
		accounts = append(accounts, &clone)
	}
	return accounts, nil
}

// memoryPetRepository is a thread-safe in-memory pet store.
type memoryPetRepository struct {
	mu     sync.Mutex
	nextID int64
	pets   map[int64]*petDomain.Pet
}

func newMemoryPetRepository() *memoryPetRepository {
	return &memoryPetRepository{nextID: 1, pets: make(map[int64]*petDomain.Pet)}
}

func (r *memoryPetRepository) Create(ctx context.Context, pet *petDomain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet.ID = r.nextID
	r.nextID++
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	clone := *pet
	r.pets[pet.ID] = &clone
	return nil
}

func (r *memoryPetRepository) GetByID(ctx context.Context, id int64) (*petDomain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[id]
	if !ok {
		return nil, petDomain.ErrPetNotFound
	}
	clone := *pet
	return &clone, nil
}

func (r *memoryPetRepository) Update(ctx context.Context, pet *petDomain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[pet.ID]; !ok {
		return petDomain.ErrPetNotFound
	}
	pet.UpdatedAt = time.Now()
	clone := *pet
	r.pets[pet.ID] = &clone
	return nil
}

func (r *memoryPetRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[id]; !ok {
		return petDomain.ErrPetNotFound
	}
	delete(r.pets, id)
	return nil
}

func (r *memoryPetRepository) List(ctx context.Context, offset, limit int) ([]*petDomain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.pets))
	for id := range r.pets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	pets := make([]*petDomain.Pet, 0, limit)
	for i := offset; i < len(ids) && len(pets) < limit; i++ {
		clone := *r.pets[ids[i]]
		pets = append(pets, &clone)
	}
	return pets, nil
}

// memoryBlogRepository is a thread-safe in-memory blog post store.
type memoryBlogRepository struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*blogDomain.BlogPost
}

func newMemoryBlogRepository() *memoryBlogRepository {
	return &memoryBlogRepository{nextID: 1, posts: make(map[int64]*blogDomain.BlogPost)}
}

func (r *memoryBlogRepository) Create(ctx context.Context, post *blogDomain.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	r.nextID++
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *memoryBlogRepository) GetByID(ctx context.Context, id int64) (*blogDomain.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, blogDomain.ErrBlogPostNotFound
	}
	clone := *post
	return &clone, nil
}

func (r *memoryBlogRepository) Update(ctx context.Context, post *blogDomain.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return blogDomain.ErrBlogPostNotFound
	}
	post.UpdatedAt = time.Now()
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *memoryBlogRepository) List(ctx context.Context, offset, limit int) ([]*blogDomain.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.posts))
	for id := range r.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	posts := make([]*blogDomain.BlogPost, 0, limit)
	for i := offset; i < len(ids) && len(posts) < limit; i++ {
		clone := *r.posts[ids[i]]
		posts = append(posts, &clone)
	}
	return posts, nil
}

func (r *memoryBlogRepository) ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]*blogDomain.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.posts))
	for id, post := range r.posts {
		if post.AuthorID == authorID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	posts := make([]*blogDomain.BlogPost, 0, limit)
	for i := offset; i < len(ids) && len(posts) < limit; i++ {
		clone := *r.posts[ids[i]]
		posts = append(posts, &clone)
	}
	return posts, nil
}

// recordingMailer captures outbound mail so tests can assert on the recovery
// flow.
type recordingMailer struct {
	mu                    sync.Mutex
	lastRecoveryPassword  string
	lastRecoveryRecipient string
}

func (m *recordingMailer) SendWelcome(ctx context.Context, to string, username string) error {
	return nil
}

func (m *recordingMailer) SendPasswordRecovery(ctx context.Context, to string, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRecoveryRecipient = to
	m.lastRecoveryPassword = password
	return nil
}

func (m *recordingMailer) Enabled() bool { return true }

func (m *recordingMailer) lastRecovery() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRecoveryRecipient, m.lastRecoveryPassword
}

// apiTestContext holds the running test server and shared state.
type apiTestContext struct {
	server *httptest.Server
	mailer *recordingMailer
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *apiTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	token string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, resp.Body.Close())

	return resp, respBody
}

// setupAPITest wires the full router over in-memory repositories.
func setupAPITest(t *testing.T) *apiTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		ServerHost:          "localhost",
		ServerPort:          8080,
		AuthJWTSecret:       "integration-test-secret",
		AuthTokenExpiration: time.Hour,
		UploadsDir:          t.TempDir(),
	}

	cipherKey := make([]byte, 32)
	_, err := rand.Read(cipherKey)
	require.NoError(t, err, "failed to generate cipher key")

	credentialCipher, err := authService.NewCredentialCipher("aes-gcm", cipherKey)
	require.NoError(t, err, "failed to create credential cipher")

	passwordService, err := authService.NewPasswordService()
	require.NoError(t, err, "failed to create password service")

	tokenService := authService.NewJWTTokenService(cfg.AuthJWTSecret, cfg.AuthTokenExpiration)

	txManager := passthroughTxManager{}
	accountRepo := newMemoryAccountRepository()
	petRepo := newMemoryPetRepository()
	blogRepo := newMemoryBlogRepository()
	outboundMailer := &recordingMailer{}

	authUC := authUseCase.NewAuthUseCase(
		txManager, accountRepo, tokenService, passwordService,
		credentialCipher, outboundMailer, logger,
	)
	identityUC := authUseCase.NewIdentityUseCase(accountRepo)
	accountUC := accountUsecase.NewAccountUseCase(txManager, accountRepo)
	petUC := petUsecase.NewPetUseCase(txManager, petRepo, cfg.UploadsDir)
	blogUC := blogUsecase.NewBlogUseCase(txManager, blogRepo, cfg.UploadsDir)

	server := apphttp.NewServer(nil, cfg.ServerHost, cfg.ServerPort, logger)
	server.SetupRouter(cfg, apphttp.RouterDeps{
		Matcher:         policy.NewDefaultMatcher(),
		TokenService:    tokenService,
		IdentityUseCase: identityUC,
		AuthHandler:     authHTTP.NewAuthHandler(authUC, logger),
		AccountHandler:  accountHTTP.NewAccountHandler(accountUC, logger),
		PetHandler:      petHTTP.NewPetHandler(petUC, logger),
		BlogHandler:     blogHTTP.NewBlogHandler(blogUC, logger),
	}, nil)

	testServer := httptest.NewServer(server.GetHandler())
	t.Cleanup(testServer.Close)

	return &apiTestContext{server: testServer, mailer: outboundMailer}
}

// register creates an account through the API and returns its token response.
func (ctx *apiTestContext) register(t *testing.T, username, email, password, role string) authDTO.TokenResponse {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/api/auth/register", authDTO.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %s", body)

	var response authDTO.TokenResponse
	require.NoError(t, json.Unmarshal(body, &response))
	return response
}

func TestIntegration_HealthEndpoints(t *testing.T) {
	ctx := setupAPITest(t)

	t.Run("01_HealthCheck", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response map[string]string
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "healthy", response["status"])
	})

	t.Run("02_ReadinessWithoutDatabase", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var response struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "not_ready", response.Status)
		assert.Equal(t, "error", response.Components["database"])
	})
}

func TestIntegration_AuthCompleteFlow(t *testing.T) {
	ctx := setupAPITest(t)

	var (
		userPassword = "Sup3r-Secret!"
		userToken    string
		userID       int64
	)

	// [1/9] Register a plain user account
	t.Run("01_Register", func(t *testing.T) {
		response := ctx.register(t, "alice", "alice@example.com", userPassword, "")
		assert.NotEmpty(t, response.Token)
		assert.Equal(t, "USER", response.Role)
		assert.Positive(t, response.UserID)

		userToken = response.Token
		userID = response.UserID
	})

	// [2/9] Login with the registered credentials
	t.Run("02_Login", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/api/auth/login", authDTO.LoginRequest{
			Email:    "Alice@Example.com",
			Password: userPassword,
		}, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response authDTO.TokenResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.NotEmpty(t, response.Token)
		assert.Equal(t, userID, response.UserID)
	})

	// [3/9] Wrong password answers with the uniform 401 body
	t.Run("03_LoginWrongPassword", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/api/auth/login", authDTO.LoginRequest{
			Email:    "alice@example.com",
			Password: "not-the-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, string(body), "Invalid credentials")
	})

	// [4/9] Protected routes reject requests without a token
	t.Run("04_ProtectedWithoutToken", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/api/blogs/create", blogDTO.CreatePostRequest{
			Title:   "No token",
			Content: "Should never be created.",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, string(body), "Invalid credentials")
	})

	// [5/9] Public routes ignore garbage Authorization headers
	t.Run("05_PublicWithGarbageToken", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/api/pets", nil, "garbage-token")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	// [6/9] Authenticated blog creation takes the author from the principal
	t.Run("06_CreateBlogPost", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/api/blogs/create", blogDTO.CreatePostRequest{
			Title:   "Adopting senior dogs",
			Content: "They are the best.",
		}, userToken)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var response blogDTO.PostResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, userID, response.AuthorID)
		assert.Equal(t, "Adopting senior dogs", response.Title)
	})

	// [7/9] Non-admin principals cannot reach the user administration routes
	t.Run("07_AdminGateRejectsUser", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/api/users", nil, userToken)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	// [8/9] Admin principals can list accounts
	t.Run("08_AdminListAccounts", func(t *testing.T) {
		adminResponse := ctx.register(t, "root", "root@example.com", "R00t-Secret!", "admin")
		require.Equal(t, "ADMIN", adminResponse.Role)

		resp, body := ctx.makeRequest(t, http.MethodGet, "/api/users", nil, adminResponse.Token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response accountDTO.AccountListResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.GreaterOrEqual(t, len(response.Accounts), 2)
	})

	// [9/9] Recovery delivers the stored password and login still works
	t.Run("09_ForgotPassword", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/api/auth/forgot-password", authDTO.ForgotPasswordRequest{
			Email: "alice@example.com",
		}, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "If the email is registered")

		recipient, password := ctx.mailer.lastRecovery()
		assert.Equal(t, "alice@example.com", recipient)
		assert.Equal(t, userPassword, password, "stored credential copy should decrypt to the original password")

		// Unknown addresses get the same generic response.
		resp, body = ctx.makeRequest(t, http.MethodPost, "/api/auth/forgot-password", authDTO.ForgotPasswordRequest{
			Email: "nobody@example.com",
		}, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "If the email is registered")

		loginResp, _ := ctx.makeRequest(t, http.MethodPost, "/api/auth/login", authDTO.LoginRequest{
			Email:    "alice@example.com",
			Password: password,
		}, "")
		assert.Equal(t, http.StatusOK, loginResp.StatusCode)
	})
}

func TestIntegration_PetCompleteFlow(t *testing.T) {
	ctx := setupAPITest(t)

	shelterToken := ctx.register(t, "shelter", "shelter@example.com", "Sh3lter-Secret!", "shelter").Token

	var petID int64

	// [1/6] Create a pet listing
	t.Run("01_CreatePet", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/api/pets", petDTO.PetRequest{
			Name:        "Rex",
			Species:     "dog",
			Breed:       "labrador",
			Age:         3,
			Gender:      "male",
			Description: "Friendly and house trained.",
		}, shelterToken)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var response petDTO.PetResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Positive(t, response.ID)
		assert.Equal(t, "available", response.Status)

		petID = response.ID
	})

	// [2/6] Anonymous visitors can browse listings
	t.Run("02_ListPetsAnonymously", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/api/pets", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response petDTO.PetListResponse
		require.NoError(t, json.Unmarshal(body, &response))
		require.Len(t, response.Pets, 1)
		assert.Equal(t, "Rex", response.Pets[0].Name)
	})

	// [3/6] Anonymous visitors can read a single listing
	t.Run("03_GetPetAnonymously", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/api/pets/1", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response petDTO.PetResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, petID, response.ID)
	})

	// [4/6] Updates require authentication
	t.Run("04_UpdatePet", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodPut, "/api/pets/1", petDTO.PetRequest{
			Name:    "Rex",
			Species: "dog",
			Status:  petDomain.StatusPending,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, body := ctx.makeRequest(t, http.MethodPut, "/api/pets/1", petDTO.PetRequest{
			Name:    "Rex",
			Species: "dog",
			Status:  petDomain.StatusPending,
		}, shelterToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response petDTO.PetResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, petDomain.StatusPending, response.Status)
	})

	// [5/6] Delete the listing
	t.Run("05_DeletePet", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodDelete, "/api/pets/1", nil, shelterToken)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, body)
	})

	// [6/6] Deleted listings answer 404
	t.Run("06_GetDeletedPet", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/api/pets/1", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

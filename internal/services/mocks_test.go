package services

import (
	"context"
	"time"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user          *models.User
	err           error
	getByEmailErr error
	createErr     error
	updateErr     error
	mobileTaken   bool

	created        *models.User
	otp            string
	verified       bool
	resetTokenHash string
	resetCleared   bool
	passwordHash   string
	profileReq     *models.UpdateProfileRequest
	dateOfBirth    *time.Time
	clearedSecrets int64
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	m.created = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.ID != id {
		return nil, apperrors.NotFound("user not found")
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	if m.user == nil || m.user.Email != email {
		return nil, apperrors.NotFound("user not found")
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByPasswordResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.PasswordResetToken != tokenHash {
		return nil, apperrors.NotFound("user not found")
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByMobileNumber(ctx context.Context, mobileNumber string, excludeUserID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.mobileTaken, nil
}

func (m *mockUserRepository) UpdateOTP(ctx context.Context, userID int, otp string, expiresAt time.Time) error {
	m.otp = otp
	return m.updateErr
}

func (m *mockUserRepository) MarkVerified(ctx context.Context, userID int) error {
	m.verified = true
	return m.updateErr
}

func (m *mockUserRepository) SetPasswordResetToken(ctx context.Context, userID int, tokenHash string, expiresAt *time.Time) error {
	if tokenHash == "" {
		m.resetCleared = true
	} else {
		m.resetTokenHash = tokenHash
	}
	return m.updateErr
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	m.passwordHash = passwordHash
	return m.updateErr
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest, passwordHash string, dateOfBirth *time.Time) error {
	m.profileReq = req
	m.passwordHash = passwordHash
	m.dateOfBirth = dateOfBirth
	return m.updateErr
}

func (m *mockUserRepository) ClearExpiredSecrets(ctx context.Context, now time.Time) (int64, error) {
	return m.clearedSecrets, m.err
}

// mockUserTokenRepository is a mock implementation of UserTokenRepository
type mockUserTokenRepository struct {
	token     *models.UserToken
	err       error
	rotateErr error

	created       *models.UserToken
	rotated       *models.UserToken
	deleted       []string
	revokedUserID int
	expired       int64
}

func (m *mockUserTokenRepository) Create(ctx context.Context, userToken *models.UserToken) error {
	m.created = userToken
	return m.err
}

func (m *mockUserTokenRepository) GetByToken(ctx context.Context, token string) (*models.UserToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.token == nil || m.token.Token != token {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid refresh token")
	}
	return m.token, nil
}

func (m *mockUserTokenRepository) Rotate(ctx context.Context, oldToken string, newToken *models.UserToken) error {
	if m.rotateErr != nil {
		return m.rotateErr
	}
	m.rotated = newToken
	return nil
}

func (m *mockUserTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

func (m *mockUserTokenRepository) DeleteByUserID(ctx context.Context, userID int) error {
	m.revokedUserID = userID
	return nil
}

func (m *mockUserTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.expired, m.err
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

// mockMailer is a mock implementation of Mailer
type mockMailer struct {
	err  error
	sent []sentEmail
}

func (m *mockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	courses      map[int]*models.Course
	err          error
	createErr    error
	updateErr    error
	deleteErr    error
	idsByCreator []int
	allIDs       []int

	updated  *models.UpdateCourseRequest
	averages map[int]float64
	deleted  []int
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	course.ID = 100
	if m.courses == nil {
		m.courses = map[int]*models.Course{}
	}
	stored := *course
	m.courses[course.ID] = &stored
	return nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	course, ok := m.courses[id]
	if !ok {
		return nil, apperrors.NotFound("course not found")
	}
	copied := *course
	return &copied, nil
}

func (m *mockCourseRepository) GetPublicByCategory(ctx context.Context, categoryID int) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	courses := []models.Course{}
	for _, c := range m.courses {
		if c.CategoryID == categoryID && c.CourseType == models.CourseTypePublic {
			courses = append(courses, *c)
		}
	}
	return courses, nil
}

func (m *mockCourseRepository) GetByCreator(ctx context.Context, userID int) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	courses := []models.Course{}
	for _, c := range m.courses {
		if c.CreatedBy == userID {
			courses = append(courses, *c)
		}
	}
	return courses, nil
}

func (m *mockCourseRepository) GetIDsByCreator(ctx context.Context, userID int) ([]int, error) {
	return m.idsByCreator, m.err
}

func (m *mockCourseRepository) GetAllIDs(ctx context.Context) ([]int, error) {
	return m.allIDs, m.err
}

func (m *mockCourseRepository) Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = req
	return nil
}

func (m *mockCourseRepository) UpdateAverageRating(ctx context.Context, id int, average float64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.averages == nil {
		m.averages = map[int]float64{}
	}
	m.averages[id] = average
	return nil
}

func (m *mockCourseRepository) Delete(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockCategoryRepository is a mock implementation of CategoryRepository
type mockCategoryRepository struct {
	categories map[int]*models.Category
	err        error
	createErr  error
	deleteErr  error

	updated *models.UpdateCategoryRequest
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	category.ID = 1
	if m.categories == nil {
		m.categories = map[int]*models.Category{}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	category, ok := m.categories[id]
	if !ok {
		return nil, apperrors.NotFound("category not found")
	}
	return category, nil
}

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	categories := []models.Category{}
	for _, c := range m.categories {
		categories = append(categories, *c)
	}
	return categories, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, id int, req *models.UpdateCategoryRequest) error {
	m.updated = req
	if req.Name != nil {
		m.categories[id].Name = *req.Name
	}
	return m.err
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int) error {
	return m.deleteErr
}

// mockContentRepository is a mock implementation of CourseContentRepository
type mockContentRepository struct {
	topics        []models.Topic
	topic         *models.Topic
	subTopicCount int
	belongs       bool
	err           error
	saveErr       error
	replaceErr    error

	createdTopic    *models.Topic
	createdSubTopic *models.SubTopic
	savedTopics     []models.Topic
	savedTotal      string
	replaceCalled   bool
	replacedFields  *models.UpdateCourseRequest
	replacedTopics  []models.Topic
	replacedTotal   string
}

func (m *mockContentRepository) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if m.err != nil {
		return m.err
	}
	topic.ID = 7
	m.createdTopic = topic
	m.topic = topic
	return nil
}

func (m *mockContentRepository) GetTopicByID(ctx context.Context, id int) (*models.Topic, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.topic == nil || m.topic.ID != id {
		return nil, apperrors.NotFound("topic not found")
	}
	return m.topic, nil
}

func (m *mockContentRepository) CreateSubTopic(ctx context.Context, subTopic *models.SubTopic) error {
	if m.err != nil {
		return m.err
	}
	subTopic.ID = 11
	m.createdSubTopic = subTopic
	for i := range m.topics {
		if m.topics[i].ID == subTopic.TopicID {
			m.topics[i].SubTopics = append(m.topics[i].SubTopics, *subTopic)
		}
	}
	return nil
}

func (m *mockContentRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Topic, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.topics, nil
}

func (m *mockContentRepository) CountSubTopics(ctx context.Context, courseID int) (int, error) {
	return m.subTopicCount, m.err
}

func (m *mockContentRepository) SubTopicBelongsToCourse(ctx context.Context, subTopicID, courseID int) (bool, error) {
	return m.belongs, m.err
}

func (m *mockContentRepository) SaveDurations(ctx context.Context, courseID int, topics []models.Topic, totalDuration string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedTopics = topics
	m.savedTotal = totalDuration
	return nil
}

func (m *mockContentRepository) ReplaceContent(ctx context.Context, courseID int, req *models.UpdateCourseRequest, topics []models.Topic, totalDuration string) error {
	m.replaceCalled = true
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replacedFields = req
	m.replacedTopics = topics
	m.replacedTotal = totalDuration
	return nil
}

type userCourse [2]int

// mockEnrollmentRepository is a mock implementation of EnrollmentRepository
type mockEnrollmentRepository struct {
	enrolled        map[userCourse]bool
	err             error
	createErr       error
	countByCourse   int
	courseIDs       []int
	enrolledCourses []models.EnrolledCourse

	createCalls int
}

func (m *mockEnrollmentRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.enrolled[userCourse{userID, courseID}], nil
}

func (m *mockEnrollmentRepository) Create(ctx context.Context, userID, courseID int) (bool, error) {
	m.createCalls++
	if m.createErr != nil {
		return false, m.createErr
	}
	key := userCourse{userID, courseID}
	if m.enrolled[key] {
		return false, nil
	}
	if m.enrolled == nil {
		m.enrolled = map[userCourse]bool{}
	}
	m.enrolled[key] = true
	return true, nil
}

func (m *mockEnrollmentRepository) GetCourseIDsByUser(ctx context.Context, userID int) ([]int, error) {
	return m.courseIDs, m.err
}

func (m *mockEnrollmentRepository) CountByCourse(ctx context.Context, courseID int) (int, error) {
	return m.countByCourse, m.err
}

func (m *mockEnrollmentRepository) GetEnrolledCourses(ctx context.Context, userID int) ([]models.EnrolledCourse, error) {
	return m.enrolledCourses, m.err
}

// mockCartRepository is a mock implementation of CartRepository
type mockCartRepository struct {
	items     map[userCourse]bool
	cart      []models.CartItem
	err       error
	createErr error
	deleteErr error
}

func (m *mockCartRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.items[userCourse{userID, courseID}], nil
}

func (m *mockCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	item.ID = 5
	if m.items == nil {
		m.items = map[userCourse]bool{}
	}
	m.items[userCourse{item.UserID, item.CourseID}] = true
	return nil
}

func (m *mockCartRepository) GetByUserID(ctx context.Context, userID int) ([]models.CartItem, error) {
	return m.cart, m.err
}

func (m *mockCartRepository) Delete(ctx context.Context, userID, courseID int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	key := userCourse{userID, courseID}
	if !m.items[key] {
		return apperrors.NotFound("cart item not found")
	}
	delete(m.items, key)
	return nil
}

// mockRatingRepository is a mock implementation of RatingRepository
type mockRatingRepository struct {
	values    map[int][]float64
	ratings   []models.Rating
	exists    bool
	err       error
	createErr error
}

func (m *mockRatingRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	return m.exists, m.err
}

func (m *mockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if m.createErr != nil {
		return m.createErr
	}
	rating.ID = 3
	if m.values == nil {
		m.values = map[int][]float64{}
	}
	m.values[rating.CourseID] = append(m.values[rating.CourseID], rating.Rating)
	return nil
}

func (m *mockRatingRepository) GetValuesByCourse(ctx context.Context, courseID int) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.values[courseID], nil
}

func (m *mockRatingRepository) GetAll(ctx context.Context) ([]models.Rating, error) {
	return m.ratings, m.err
}

func (m *mockRatingRepository) GetByCourse(ctx context.Context, courseID int) ([]models.Rating, error) {
	return m.ratings, m.err
}

// mockProgressRepository is an in-memory implementation of ProgressRepository
type mockProgressRepository struct {
	records   map[userCourse]*models.CourseProgress
	err       error
	updateErr error

	addCalls    int
	updateCalls int
}

func cloneProgress(p *models.CourseProgress) *models.CourseProgress {
	copied := *p
	copied.CompletedSubTopics = append([]int{}, p.CompletedSubTopics...)
	return &copied
}

func (m *mockProgressRepository) byID(progressID int) *models.CourseProgress {
	for _, p := range m.records {
		if p.ID == progressID {
			return p
		}
	}
	return nil
}

func (m *mockProgressRepository) Get(ctx context.Context, userID, courseID int) (*models.CourseProgress, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.records[userCourse{userID, courseID}]
	if !ok {
		return nil, apperrors.NotFound("progress not found")
	}
	return cloneProgress(p), nil
}

func (m *mockProgressRepository) GetOrCreate(ctx context.Context, userID, courseID int) (*models.CourseProgress, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.records == nil {
		m.records = map[userCourse]*models.CourseProgress{}
	}
	key := userCourse{userID, courseID}
	p, ok := m.records[key]
	if !ok {
		p = &models.CourseProgress{
			ID:                 len(m.records) + 1,
			UserID:             userID,
			CourseID:           courseID,
			CompletedSubTopics: []int{},
			Status:             models.ProgressStatusAll,
		}
		m.records[key] = p
	}
	return cloneProgress(p), nil
}

func (m *mockProgressRepository) GetCompletedSubTopicIDs(ctx context.Context, progressID int) ([]int, error) {
	p := m.byID(progressID)
	if p == nil {
		return []int{}, nil
	}
	return append([]int{}, p.CompletedSubTopics...), nil
}

func (m *mockProgressRepository) AddCompletedSubTopic(ctx context.Context, progressID, subTopicID int) (bool, error) {
	m.addCalls++
	p := m.byID(progressID)
	if p == nil {
		return false, apperrors.NotFound("progress not found")
	}
	if p.HasCompleted(subTopicID) {
		return false, nil
	}
	p.CompletedSubTopics = append(p.CompletedSubTopics, subTopicID)
	return true, nil
}

func (m *mockProgressRepository) UpdateProgress(ctx context.Context, progress *models.CourseProgress) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	p := m.byID(progress.ID)
	if p == nil {
		return apperrors.NotFound("progress not found")
	}
	p.ProgressPercentage = progress.ProgressPercentage
	p.Status = progress.Status
	return nil
}

// mockPaymentGateway is a mock implementation of PaymentGateway
type mockPaymentGateway struct {
	session *models.CheckoutSession
	event   *models.PaymentEvent
	err     error

	params *models.CheckoutParams
}

func (m *mockPaymentGateway) CreateCheckoutSession(ctx context.Context, params models.CheckoutParams) (*models.CheckoutSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.params = &params
	return m.session, nil
}

func (m *mockPaymentGateway) VerifyEvent(payload []byte, signature string) (*models.PaymentEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}

// mockDeduplicator is an in-memory implementation of EventDeduplicator
type mockDeduplicator struct {
	claimed  map[string]bool
	err      error
	released []string
}

func (m *mockDeduplicator) Claim(ctx context.Context, eventID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.claimed[eventID] {
		return false, nil
	}
	if m.claimed == nil {
		m.claimed = map[string]bool{}
	}
	m.claimed[eventID] = true
	return true, nil
}

func (m *mockDeduplicator) Release(ctx context.Context, eventID string) error {
	delete(m.claimed, eventID)
	m.released = append(m.released, eventID)
	return nil
}

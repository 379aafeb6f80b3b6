package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/tokyo-weekend/internal/api"
	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// AppState represents the current screen
type AppState int

const (
	StateEvents    AppState = iota // Browse events with area/category filters
	StateSearch                    // Free-text search input
	StateDetail                    // One event
	StateRoutes                    // Routes to the detail event
	StateNearby                    // Places around the detail event
	StateFavorites                 // User's saved events
	StateSchedule                  // User's planned events
	StateLogin                     // Login or register form
	StateError                     // Error state
)

// Filter choices offered by the events and favorites screens. The empty
// string means no filter.
var (
	areas      = []string{"", "上野", "渋谷", "池袋", "新宿", "北千住"}
	categories = []string{"", "アート", "音楽", "フード", "アニメ", "マーケット"}
)

// Login form fields
const (
	inputUsername = iota
	inputEmail
	inputPassword
)

// Model represents the application's state
type Model struct {
	svc    api.Service
	origin models.Coordinates

	state   AppState
	back    AppState // where Esc leaves the detail screen for
	width   int
	height  int
	err     error
	status  string
	loading bool

	user *models.User

	// Events
	events      []models.Event
	eventList   list.Model
	area        int
	category    int
	searchInput textinput.Model

	// Detail
	detail *models.Event
	routes []models.RouteOption
	places []models.NearbyPlace

	// Favorites and schedule
	favorites   []models.Event
	favCategory int
	favList     list.Model
	schedule    []models.Event
	schedList   list.Model

	// Login
	registerMode bool
	inputs       []textinput.Model
	focus        int // index into loginFields()
}

// NewModel creates the application model. origin is where routes start.
func NewModel(svc api.Service, origin models.Coordinates) Model {
	si := textinput.New()
	si.Placeholder = "Search events (e.g. アニメ, market, jazz)..."
	si.CharLimit = 100
	si.Width = 60

	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 120
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[inputUsername].Placeholder = "Username"
	inputs[inputEmail].Placeholder = "Email"
	inputs[inputPassword].Placeholder = "Password"
	inputs[inputPassword].EchoMode = textinput.EchoPassword
	inputs[inputPassword].EchoCharacter = '•'

	m := Model{
		svc:         svc,
		origin:      origin,
		state:       StateEvents,
		loading:     true,
		searchInput: si,
		inputs:      inputs,
	}
	w, h := m.listSize()
	m.eventList = createEventList(nil, m.eventsTitle(), w, h)
	m.favList = createEventList(nil, "Favorites", w, h)
	m.schedList = createEventList(nil, "Schedule", w, h)
	return m
}

// Init checks the stored session and loads the first page of events
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		checkSession(m.svc),
		fetchEvents(m.svc, m.filter(), m.eventsTitle()),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.listSize()
		m.eventList.SetSize(w, h)
		m.favList.SetSize(w, h)
		m.schedList.SetSize(w, h)
		return m, nil
	}

	switch msg := msg.(type) {
	case sessionCheckedMsg:
		m.user = msg.user
		if msg.err != nil && !errors.Is(msg.err, api.ErrAuthenticationRequired) {
			m.status = "Session check failed: " + msg.err.Error()
		}
		return m, nil

	case eventsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			if m.state == StateEvents {
				m.err = fmt.Errorf("loading events: %w", msg.err)
				m.state = StateError
			} else {
				m.status = errorText(msg.err)
			}
			return m, nil
		}
		m.events = msg.events
		w, h := m.listSize()
		m.eventList = createEventList(msg.events, msg.title, w, h)
		return m, nil

	case eventDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Could not load event: " + errorText(msg.err)
			return m, nil
		}
		m.detail = msg.event
		m.routes = nil
		m.places = nil
		m.status = ""
		m.state = StateDetail
		return m, nil

	case routesFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Could not load routes: " + errorText(msg.err)
			return m, nil
		}
		m.routes = msg.routes
		m.state = StateRoutes
		return m, nil

	case placesFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Could not load nearby places: " + errorText(msg.err)
			return m, nil
		}
		m.places = msg.places
		m.state = StateNearby
		return m, nil

	case favoritesFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorText(msg.err)
			return m, nil
		}
		m.favorites = msg.events
		m.rebuildFavoriteList()
		return m, nil

	case scheduleFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorText(msg.err)
			return m, nil
		}
		m.schedule = msg.events
		m.rebuildScheduleList()
		return m, nil

	case favoriteAddedMsg:
		if msg.err != nil {
			m.status = "Could not add favorite: " + errorText(msg.err)
			return m, nil
		}
		m.status = "Added to favorites"
		return m, nil

	case scheduledMsg:
		if msg.err != nil {
			m.status = "Could not add to schedule: " + errorText(msg.err)
			return m, nil
		}
		m.status = "Added to schedule"
		if msg.schedule.Reminder {
			m.status += " with reminder"
		}
		return m, nil

	case removedMsg:
		if msg.err != nil {
			m.status = "Could not remove: " + errorText(msg.err)
			return m, nil
		}
		switch msg.from {
		case StateFavorites:
			m.favorites = withoutEvent(m.favorites, msg.eventID)
			m.rebuildFavoriteList()
		case StateSchedule:
			m.schedule = withoutEvent(m.schedule, msg.eventID)
			m.rebuildScheduleList()
		}
		m.status = "Removed"
		return m, nil

	case loggedInMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Login failed: " + errorText(msg.err)
			return m, nil
		}
		m.user = msg.user
		m.inputs[inputPassword].SetValue("")
		m.blurInputs()
		m.state = StateEvents
		m.status = "Logged in as " + msg.user.Username
		return m, nil

	case registeredMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Registration failed: " + errorText(msg.err)
			return m, nil
		}
		m.registerMode = false
		m.inputs[inputPassword].SetValue("")
		m.focus = 0
		m.focusInputs()
		m.status = fmt.Sprintf("Account created for %s, log in to continue", msg.user.Username)
		return m, textinput.Blink
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}

	// Non-key messages (cursor blink, list internals) go to the active component
	var cmd tea.Cmd
	switch m.state {
	case StateSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case StateLogin:
		field := m.loginFields()[m.focus]
		m.inputs[field], cmd = m.inputs[field].Update(msg)
	case StateEvents:
		m.eventList, cmd = m.eventList.Update(msg)
	case StateFavorites:
		m.favList, cmd = m.favList.Update(msg)
	case StateSchedule:
		m.schedList, cmd = m.schedList.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry screens see every other key
	switch m.state {
	case StateSearch:
		return m.handleSearchInput(msg)
	case StateLogin:
		return m.handleLoginInput(msg)
	case StateError:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		// Any other key returns to the event list and retries
		m.err = nil
		m.state = StateEvents
		return m.reloadEvents()
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.state = StateEvents
		m.status = ""
		return m, nil
	case "2":
		m.state = StateFavorites
		m.status = ""
		m.loading = true
		return m, fetchFavorites(m.svc)
	case "3":
		m.state = StateSchedule
		m.status = ""
		m.loading = true
		return m, fetchSchedule(m.svc)
	case "4":
		return m.openLogin()
	case "L":
		m.svc.Logout()
		m.user = nil
		m.favorites = nil
		m.schedule = nil
		m.rebuildFavoriteList()
		m.rebuildScheduleList()
		if m.state == StateFavorites || m.state == StateSchedule {
			m.state = StateEvents
		}
		m.status = "Logged out"
		return m, nil
	}

	switch m.state {
	case StateEvents:
		return m.handleEvents(msg)
	case StateDetail:
		return m.handleDetail(msg)
	case StateRoutes, StateNearby:
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyBackspace {
			m.state = StateDetail
		}
		return m, nil
	case StateFavorites:
		return m.handleFavorites(msg)
	case StateSchedule:
		return m.handleSchedule(msg)
	}
	return m, nil
}

// handleEvents handles keyboard input on the event list
func (m Model) handleEvents(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		m.area = (m.area + 1) % len(areas)
		return m.reloadEvents()
	case "c":
		m.category = (m.category + 1) % len(categories)
		return m.reloadEvents()
	case "r":
		return m.reloadEvents()
	case "/":
		m.state = StateSearch
		m.status = ""
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink
	case "enter":
		return m.openDetail(m.eventList, StateEvents)
	}

	var cmd tea.Cmd
	m.eventList, cmd = m.eventList.Update(msg)
	return m, cmd
}

// handleSearchInput handles keyboard input in search state
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchInput.Blur()
		m.state = StateEvents
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.searchInput.Blur()
		m.state = StateEvents
		m.loading = true
		return m, searchEvents(m.svc, query)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.state = m.back
		return m, nil
	}
	id := m.detail.ID

	switch msg.String() {
	case "f":
		return m, addFavorite(m.svc, id)
	case "s":
		return m, addToSchedule(m.svc, id, false)
	case "S":
		return m, addToSchedule(m.svc, id, true)
	case "r":
		m.loading = true
		return m, fetchRoutes(m.svc, id, m.origin)
	case "n":
		m.loading = true
		return m, fetchNearbyPlaces(m.svc, m.detail.Location.Area)
	case "esc", "backspace":
		m.state = m.back
		m.status = ""
	}
	return m, nil
}

func (m Model) handleFavorites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		// Filters the loaded favorites without refetching
		m.favCategory = (m.favCategory + 1) % len(categories)
		m.rebuildFavoriteList()
		return m, nil
	case "d":
		if ev, ok := selectedEvent(m.favList); ok {
			return m, removeFavorite(m.svc, ev.ID)
		}
		return m, nil
	case "enter":
		return m.openDetail(m.favList, StateFavorites)
	case "esc":
		m.state = StateEvents
		return m, nil
	}

	var cmd tea.Cmd
	m.favList, cmd = m.favList.Update(msg)
	return m, cmd
}

func (m Model) handleSchedule(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		if ev, ok := selectedEvent(m.schedList); ok {
			return m, removeFromSchedule(m.svc, ev.ID)
		}
		return m, nil
	case "enter":
		return m.openDetail(m.schedList, StateSchedule)
	case "esc":
		m.state = StateEvents
		return m, nil
	}

	var cmd tea.Cmd
	m.schedList, cmd = m.schedList.Update(msg)
	return m, cmd
}

func (m Model) handleLoginInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.loginFields()

	switch msg.String() {
	case "esc":
		m.blurInputs()
		m.state = StateEvents
		return m, nil
	case "ctrl+r":
		m.registerMode = !m.registerMode
		m.focus = 0
		m.focusInputs()
		return m, textinput.Blink
	case "tab", "down":
		m.focus = (m.focus + 1) % len(fields)
		m.focusInputs()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + len(fields) - 1) % len(fields)
		m.focusInputs()
		return m, nil
	case "enter":
		if m.focus < len(fields)-1 {
			m.focus++
			m.focusInputs()
			return m, nil
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	field := fields[m.focus]
	m.inputs[field], cmd = m.inputs[field].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[inputUsername].Value())
	email := strings.TrimSpace(m.inputs[inputEmail].Value())
	password := m.inputs[inputPassword].Value()

	if email == "" || password == "" || (m.registerMode && username == "") {
		m.status = "All fields are required"
		return m, nil
	}

	m.status = ""
	m.loading = true
	if m.registerMode {
		return m, register(m.svc, username, email, password)
	}
	return m, login(m.svc, email, password)
}

func (m Model) openLogin() (tea.Model, tea.Cmd) {
	m.state = StateLogin
	m.status = ""
	m.focus = 0
	m.focusInputs()
	return m, textinput.Blink
}

func (m Model) openDetail(l list.Model, from AppState) (tea.Model, tea.Cmd) {
	ev, ok := selectedEvent(l)
	if !ok {
		return m, nil
	}
	m.back = from
	m.loading = true
	return m, fetchEventDetails(m.svc, ev.ID)
}

func (m Model) reloadEvents() (tea.Model, tea.Cmd) {
	m.loading = true
	m.status = ""
	return m, fetchEvents(m.svc, m.filter(), m.eventsTitle())
}

func (m Model) filter() api.EventFilter {
	return api.EventFilter{
		Area:     areas[m.area],
		Category: categories[m.category],
	}
}

func (m Model) eventsTitle() string {
	return fmt.Sprintf("Events • area: %s • category: %s", choiceLabel(areas[m.area]), choiceLabel(categories[m.category]))
}

func (m *Model) rebuildFavoriteList() {
	w, h := m.listSize()
	category := categories[m.favCategory]
	m.favList = createEventList(
		models.FilterByCategory(m.favorites, category),
		"Favorites • category: "+choiceLabel(category),
		w, h,
	)
}

func (m *Model) rebuildScheduleList() {
	w, h := m.listSize()
	m.schedList = createEventList(m.schedule, "Schedule", w, h)
}

func (m Model) loginFields() []int {
	if m.registerMode {
		return []int{inputUsername, inputEmail, inputPassword}
	}
	return []int{inputEmail, inputPassword}
}

func (m *Model) focusInputs() {
	m.blurInputs()
	m.inputs[m.loginFields()[m.focus]].Focus()
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m Model) listSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	return m.width - 4, m.height - 8
}

func choiceLabel(v string) string {
	if v == "" {
		return "all"
	}
	return v
}

// errorText renders a client failure for the status line
func errorText(err error) string {
	if errors.Is(err, api.ErrAuthenticationRequired) {
		return "log in first (press 4)"
	}
	return err.Error()
}

// View renders the UI
func (m Model) View() string {
	var body, help string

	switch m.state {
	case StateEvents:
		body = m.viewList(m.eventList, "No events found. Change the filters and try again.")
		help = "↑/↓: Navigate • Enter: Details • A: Area • C: Category • /: Search • R: Reload • 2: Favorites • 3: Schedule • 4: Login • Q: Quit"
	case StateSearch:
		body = inputBoxStyle.Render(m.searchInput.View())
		help = "Enter: Search • Esc: Back"
	case StateDetail:
		body = m.renderDetail()
		help = "F: Favorite • S: Schedule • Shift+S: Schedule with reminder • R: Routes • N: Nearby • Esc: Back"
	case StateRoutes:
		body = m.renderRoutes()
		help = "Esc: Back to event"
	case StateNearby:
		body = m.renderPlaces()
		help = "Esc: Back to event"
	case StateFavorites:
		body = m.viewList(m.favList, "No favorites yet.")
		help = "Enter: Details • C: Category • D: Remove • 1: Events • 3: Schedule • Q: Quit"
	case StateSchedule:
		body = m.viewList(m.schedList, "Nothing scheduled yet.")
		help = "Enter: Details • D: Remove • 1: Events • 2: Favorites • Q: Quit"
	case StateLogin:
		body = m.viewLogin()
		help = "Tab: Next field • Enter: Submit • Ctrl+R: Toggle register • Esc: Back"
	case StateError:
		return m.viewError()
	}

	sections := []string{m.viewHeader(), "", body}
	if m.loading {
		sections = append(sections, "", mutedStyle.Render("Loading..."))
	} else if m.status != "" {
		sections = append(sections, "", subtitleStyle.Render(m.status))
	}
	sections = append(sections, helpStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	title := titleStyle.Render("🗼 Tokyo Weekend")
	account := mutedStyle.Render("Not logged in • 4: Login")
	if m.user != nil {
		account = successStyle.Render("Logged in as "+m.user.Username) + mutedStyle.Render(" • L: Logout")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", account)
}

func (m Model) viewList(l list.Model, empty string) string {
	if len(l.Items()) == 0 && !m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(l.Title), "", mutedStyle.Render(empty))
	}
	return l.View()
}

func (m Model) viewLogin() string {
	heading := "Log in"
	if m.registerMode {
		heading = "Create account"
	}

	sections := []string{sectionHeaderStyle.Render(heading)}
	fields := m.loginFields()
	for i, field := range fields {
		style := inputBoxStyle
		if i == m.focus {
			style = activeInputBoxStyle
		}
		sections = append(sections, style.Render(m.inputs[field].View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Error")

	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	help := helpStyle.Render("Press any key to retry • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

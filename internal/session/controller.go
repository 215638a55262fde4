// Package session implements the edit session controller: it consumes user
// intents, drives the pixel pipeline for previews and commits, talks to the
// generation service, and mutates the history stack.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"scene-studio/internal/app"
	"scene-studio/internal/genai"
	"scene-studio/internal/gesture"
	"scene-studio/internal/history"
	"scene-studio/internal/image"
	"scene-studio/internal/placement"
	"scene-studio/pkg/geometry"
)

var (
	// ErrBusy is returned while an external call or a full-resolution
	// pipeline commit is outstanding; the same operation can be retried
	// once it resolves.
	ErrBusy = errors.New("an operation is already in progress")

	// ErrNoScene is returned for operations that need a loaded scene.
	ErrNoScene = errors.New("no scene loaded")

	// ErrNoProduct is returned when the selected product slot is empty.
	ErrNoProduct = errors.New("no product image in the selected slot")

	// ErrProposalActive is returned when a new placement is started while
	// one is already pending; cancel or confirm it first.
	ErrProposalActive = errors.New("a placement proposal is already active")
)

// MaskTarget selects what a confirmed mask is applied to.
type MaskTarget int

const (
	MaskTargetScene    MaskTarget = iota // inpaint the scene
	MaskTargetProductA                   // masked background removal, slot A
	MaskTargetProductB                   // masked background removal, slot B
)

// ghostOpacity dims the local placement preview so it reads as provisional.
const ghostOpacity = 0.75

// applyRequest is one queued full-resolution pipeline commit. The source
// buffer is captured at request time so a commit never races the cursor.
type applyRequest struct {
	src   *image.Buffer
	edits image.Edits
}

// Controller orchestrates the geometry engine, pixel pipeline, placement
// model and history stack. All methods are safe for concurrent use; heavy
// work runs on background goroutines with results marshalled back under the
// controller lock.
type Controller struct {
	mu sync.Mutex

	state      *app.State
	gen        genai.Generator
	placements *placement.Model
	tracker    *gesture.Tracker

	container geometry.Size

	// Downscaled copy of the image the canvas displays: the scene at the
	// history cursor, or a product while a product mask is being painted.
	displayBase *image.Buffer

	selected placement.Source

	maskMode   bool
	maskTarget MaskTarget
	strokes    *image.StrokeMask
	lastPaint  map[int]geometry.Point2D
	brush      float64

	// busy is set while an external service call is outstanding. It blocks
	// undo/redo, new placements and further external calls.
	busy bool

	// applying is set while a full-resolution pipeline commit runs.
	// pendingApply holds the newest superseding request (latest wins); a
	// superseded in-flight result is discarded instead of committed.
	applying     bool
	pendingApply *applyRequest
}

// New creates a controller bound to the application state and a generation
// service.
func New(state *app.State, gen genai.Generator) *Controller {
	return &Controller{
		state:      state,
		gen:        gen,
		placements: placement.NewModel(),
		tracker:    gesture.NewTracker(),
		lastPaint:  make(map[int]geometry.Point2D),
		brush:      12,
	}
}

// SetContainerSize records the size of the display area. Gesture math and
// pointer projection depend on it.
func (c *Controller) SetContainerSize(size geometry.Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.container = size
	c.tracker.SetContainer(size)
}

// SelectProduct chooses which slot new placement proposals use.
func (c *Controller) SelectProduct(source placement.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = source
}

// LoadScene replaces the document: history is reset to a single entry for
// the new scene, sliders return to identity, and any mask or proposal is
// discarded. Rejected while a commit or external call is outstanding, so a
// late result can never land on the new scene's history.
func (c *Controller) LoadScene(scene *image.Buffer, label string) error {
	if err := scene.Validate(); err != nil {
		return fmt.Errorf("cannot load scene: %w", err)
	}

	c.mu.Lock()
	if c.busy || c.applying {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state.History.Reset()
	c.state.History.Commit(history.NewEntry(scene, label))
	c.placements.Cancel()
	c.tracker.Reset()
	c.exitMaskLocked()
	c.displayBase = image.Downscale(scene, image.PreviewMaxSide)
	c.mu.Unlock()

	c.state.SetEdits(image.DefaultEdits())
	c.state.Emit(app.EventSceneChanged, nil)
	c.emitPreview()
	return nil
}

// Busy reports whether an external call is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// MaskMode reports whether mask painting is active.
func (c *Controller) MaskMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maskMode
}

// SetBrushRadius sets the mask brush radius in display pixels.
func (c *Controller) SetBrushRadius(r float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r >= 1 {
		c.brush = r
	}
}

// --- Pointer intents -------------------------------------------------------

// PointerDown handles a contact landing. In mask mode it starts a stroke; in
// placement mode it starts a proposal (when none exists) or a drag/pinch
// gesture on the active one. Contacts outside the rendered image are ignored.
func (c *Controller) PointerDown(id int, pos geometry.Point2D) error {
	c.mu.Lock()

	if c.maskMode {
		pt, ok := c.displayPointLocked(pos)
		if !ok {
			c.mu.Unlock()
			return nil
		}
		c.strokes.PaintDot(pt, c.brush)
		c.lastPaint[id] = pt
		c.mu.Unlock()
		c.state.Emit(app.EventMaskChanged, nil)
		c.emitPreview()
		return nil
	}

	if c.displayBase == nil {
		c.mu.Unlock()
		return ErrNoScene
	}

	prop := c.placements.Active()
	if prop == nil {
		if c.busy {
			c.mu.Unlock()
			return ErrBusy
		}
		if c.state.Product(c.selected) == nil {
			c.mu.Unlock()
			return ErrNoProduct
		}
		pct, ok := geometry.ProjectPoint(pos, c.container, c.displaySizeLocked())
		if !ok {
			c.mu.Unlock()
			return nil
		}
		prop = c.placements.Propose(c.selected, pct)
	}

	c.tracker.Down(id, pos, prop.Position, prop.Scale)
	c.mu.Unlock()

	c.state.Emit(app.EventPlacementChanged, prop)
	c.emitPreview()
	return nil
}

// PointerMove handles contact movement: stroke painting in mask mode,
// drag/pinch updates otherwise.
func (c *Controller) PointerMove(id int, pos geometry.Point2D) {
	c.mu.Lock()

	if c.maskMode {
		pt, ok := c.displayPointLocked(pos)
		if !ok {
			c.mu.Unlock()
			return
		}
		if last, painted := c.lastPaint[id]; painted {
			c.strokes.PaintStroke(last, pt, c.brush)
		} else {
			c.strokes.PaintDot(pt, c.brush)
		}
		c.lastPaint[id] = pt
		c.mu.Unlock()
		c.state.Emit(app.EventMaskChanged, nil)
		c.emitPreview()
		return
	}

	update := c.tracker.Move(id, pos)
	prop, err := c.placements.Update(placement.Delta{
		Position: update.Position,
		Scale:    update.Scale,
	})
	c.mu.Unlock()

	if err != nil || (update.Position == nil && update.Scale == nil) {
		return
	}
	c.state.Emit(app.EventPlacementChanged, prop)
	c.emitPreview()
}

// PointerUp handles a contact lifting.
func (c *Controller) PointerUp(id int) {
	c.mu.Lock()
	if c.maskMode {
		delete(c.lastPaint, id)
	} else {
		c.tracker.Up(id)
	}
	c.mu.Unlock()
}

// --- Slider intents --------------------------------------------------------

// SetEdits replaces the slider record and refreshes the preview. The
// preview runs the identical pipeline as a commit, just on the downscaled
// display buffer.
func (c *Controller) SetEdits(edits image.Edits) {
	c.state.SetEdits(edits)
	c.emitPreview()
}

// SuggestEdits derives brightness/contrast from the current scene's luma
// distribution and adopts the suggestion as the active slider values.
func (c *Controller) SuggestEdits() error {
	c.mu.Lock()
	base := c.displayBase
	c.mu.Unlock()
	if base == nil {
		return ErrNoScene
	}

	c.SetEdits(image.SuggestEdits(base, c.state.Edits()))
	return nil
}

// ApplyEdits commits the current slider values at full resolution. The
// pipeline runs on a background goroutine; commits are serialized, and a
// newer request arriving while one runs supersedes it (the superseded result
// is discarded, never committed).
func (c *Controller) ApplyEdits() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	entry := c.state.History.Current()
	if entry == nil {
		return ErrNoScene
	}
	edits := c.state.Edits()
	if edits.IsIdentity() {
		return nil
	}

	req := &applyRequest{src: entry.Image, edits: edits}
	if c.applying {
		c.pendingApply = req
		return nil
	}
	c.applying = true
	go c.runApply(req)
	return nil
}

// runApply executes one full-resolution pipeline pass and commits it unless
// a newer request superseded it in the meantime.
func (c *Controller) runApply(req *applyRequest) {
	out, err := image.Apply(req.src, req.edits)

	c.mu.Lock()
	if c.pendingApply != nil {
		next := c.pendingApply
		c.pendingApply = nil
		c.mu.Unlock()
		go c.runApply(next)
		return
	}

	if err != nil {
		c.applying = false
		c.mu.Unlock()
		log.Printf("Edit commit failed: %v", err)
		c.state.Emit(app.EventError, fmt.Errorf("could not apply adjustments: %w", err))
		return
	}

	c.state.History.Commit(history.NewEntry(out, "Adjustments"))
	c.displayBase = image.Downscale(out, image.PreviewMaxSide)
	c.applying = false
	c.mu.Unlock()

	c.state.SetEdits(image.DefaultEdits())
	c.state.Emit(app.EventSceneChanged, nil)
	c.emitPreview()
}

// --- History intents -------------------------------------------------------

// Undo moves the history cursor back one entry. Rejected while an external
// call is outstanding.
func (c *Controller) Undo() error {
	return c.step((*history.Stack).Undo)
}

// Redo moves the history cursor forward one entry. Rejected while an
// external call is outstanding.
func (c *Controller) Redo() error {
	return c.step((*history.Stack).Redo)
}

func (c *Controller) step(move func(*history.Stack) bool) error {
	c.mu.Lock()
	if c.busy || c.applying {
		c.mu.Unlock()
		return ErrBusy
	}
	if !move(c.state.History) {
		c.mu.Unlock()
		return nil
	}
	c.exitMaskLocked()
	c.displayBase = image.Downscale(c.state.History.Current().Image, image.PreviewMaxSide)
	c.mu.Unlock()

	c.state.SetEdits(image.DefaultEdits())
	c.state.Emit(app.EventSceneChanged, nil)
	c.emitPreview()
	return nil
}

// --- Placement intents -----------------------------------------------------

// NudgeScale multiplies the active proposal's scale by factor, clamped to the
// placement bounds. Used for scroll-wheel resizing; touch pinches go through
// the gesture tracker instead.
func (c *Controller) NudgeScale(factor float64) {
	c.mu.Lock()
	prop := c.placements.Active()
	if prop == nil || factor <= 0 {
		c.mu.Unlock()
		return
	}
	scale := geometry.ClampScale(prop.Scale * factor)
	updated, err := c.placements.Update(placement.Delta{Scale: &scale})
	c.mu.Unlock()
	if err != nil {
		return
	}

	c.state.Emit(app.EventPlacementChanged, updated)
	c.emitPreview()
}

// CancelPlacement discards the active proposal.
func (c *Controller) CancelPlacement() {
	c.mu.Lock()
	c.placements.Cancel()
	c.tracker.Reset()
	c.mu.Unlock()

	c.state.Emit(app.EventPlacementChanged, nil)
	c.emitPreview()
}

// CommitPlacement confirms the active proposal and asks the generation
// service to composite the product into the scene. On failure the proposal
// is restored so the user can retry; history is only touched on success.
func (c *Controller) CommitPlacement(ctx context.Context) error {
	c.mu.Lock()
	if c.busy || c.applying {
		c.mu.Unlock()
		return ErrBusy
	}
	entry := c.state.History.Current()
	if entry == nil {
		c.mu.Unlock()
		return ErrNoScene
	}
	prop := c.placements.Active()
	if prop == nil {
		c.mu.Unlock()
		return placement.ErrNoProposal
	}
	product := c.state.Product(prop.Source)
	if product == nil {
		c.mu.Unlock()
		return ErrNoProduct
	}

	snapshot := *prop
	req, err := c.placements.Confirm()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.tracker.Reset()
	c.setBusyLocked(true)
	c.mu.Unlock()

	genReq := genai.CompositeRequest{
		Product:      product,
		ProductLabel: c.state.ProductLabel(req.Source),
		Scene:        entry.Image,
		SceneLabel:   entry.Label,
		Position:     req.Position,
		Scale:        req.Scale,
	}

	go func() {
		result, err := c.gen.CompositeScene(ctx, genReq)

		c.mu.Lock()
		c.setBusyLocked(false)
		if err != nil {
			c.placements.Restore(snapshot)
			c.mu.Unlock()
			log.Printf("Composite failed: %v", err)
			c.state.Emit(app.EventError, fmt.Errorf("compositing failed, placement kept for retry: %w", err))
			return
		}

		committed := history.NewEntry(result.Image, "Placed "+req.Source.String())
		if result.DebugImage != nil || result.DebugPrompt != "" {
			committed.Debug = &history.DebugArtifact{
				Image:  result.DebugImage,
				Prompt: result.DebugPrompt,
			}
		}
		c.state.History.Commit(committed)
		c.displayBase = image.Downscale(result.Image, image.PreviewMaxSide)
		c.mu.Unlock()

		c.state.SetEdits(image.DefaultEdits())
		c.state.Emit(app.EventPlacementChanged, nil)
		c.state.Emit(app.EventSceneChanged, nil)
		c.emitPreview()
	}()
	return nil
}

// --- Mask intents ----------------------------------------------------------

// ToggleMaskMode enters or leaves mask painting. Entering targets either the
// scene (inpainting) or a product slot (masked background removal); the
// stroke layer matches the displayed buffer and is cleared on exit.
func (c *Controller) ToggleMaskMode(on bool, target MaskTarget) error {
	c.mu.Lock()
	if !on {
		c.exitMaskLocked()
		c.restoreDisplayLocked()
		c.mu.Unlock()
		c.state.Emit(app.EventMaskChanged, nil)
		c.emitPreview()
		return nil
	}

	var base *image.Buffer
	switch target {
	case MaskTargetScene:
		entry := c.state.History.Current()
		if entry == nil {
			c.mu.Unlock()
			return ErrNoScene
		}
		base = image.Downscale(entry.Image, image.PreviewMaxSide)
	case MaskTargetProductA, MaskTargetProductB:
		product := c.state.Product(maskSource(target))
		if product == nil {
			c.mu.Unlock()
			return ErrNoProduct
		}
		base = image.Downscale(product, image.PreviewMaxSide)
	}

	c.maskMode = true
	c.maskTarget = target
	c.displayBase = base
	c.strokes = image.NewStrokeMask(base.Width, base.Height)
	c.lastPaint = make(map[int]geometry.Point2D)
	c.mu.Unlock()

	c.state.Emit(app.EventMaskChanged, nil)
	c.emitPreview()
	return nil
}

// ConfirmMask encodes the painted strokes into a binary mask and sends it to
// the generation service: inpainting for the scene target, masked background
// removal for a product target. An empty mask is rejected before any call.
func (c *Controller) ConfirmMask(ctx context.Context) error {
	c.mu.Lock()
	if c.busy || c.applying {
		c.mu.Unlock()
		return ErrBusy
	}
	if !c.maskMode || c.strokes == nil {
		c.mu.Unlock()
		return image.ErrEmptyMask
	}

	mask, err := image.EncodeMask(c.strokes.Layer())
	if err != nil {
		c.mu.Unlock()
		return err
	}

	target := c.maskTarget
	c.setBusyLocked(true)
	c.mu.Unlock()

	switch target {
	case MaskTargetScene:
		go c.runInpaint(ctx, mask)
	default:
		go c.runMaskedRemoval(ctx, maskSource(target), mask)
	}
	return nil
}

// RemoveBackground sends a product slot to the generation service for
// automatic background removal and replaces the slot on success.
func (c *Controller) RemoveBackground(ctx context.Context, source placement.Source) error {
	c.mu.Lock()
	if c.busy || c.applying {
		c.mu.Unlock()
		return ErrBusy
	}
	product := c.state.Product(source)
	if product == nil {
		c.mu.Unlock()
		return ErrNoProduct
	}
	c.setBusyLocked(true)
	c.mu.Unlock()

	go func() {
		result, err := c.gen.RemoveBackground(ctx, product)

		c.mu.Lock()
		c.setBusyLocked(false)
		c.mu.Unlock()

		if err != nil {
			log.Printf("Background removal failed: %v", err)
			c.state.Emit(app.EventError, fmt.Errorf("background removal failed: %w", err))
			return
		}
		c.state.SetProduct(source, result, c.state.ProductLabel(source))
	}()
	return nil
}

func (c *Controller) runInpaint(ctx context.Context, mask *image.Buffer) {
	c.mu.Lock()
	scene := c.state.History.Current().Image
	fullMask := image.ScaleMask(mask, scene.Width, scene.Height)
	c.mu.Unlock()

	result, err := c.gen.Inpaint(ctx, scene, fullMask)

	c.mu.Lock()
	c.setBusyLocked(false)
	if err != nil {
		c.mu.Unlock()
		log.Printf("Inpaint failed: %v", err)
		c.state.Emit(app.EventError, fmt.Errorf("object removal failed: %w", err))
		return
	}
	c.state.History.Commit(history.NewEntry(result, "Object removed"))
	c.exitMaskLocked()
	c.displayBase = image.Downscale(result, image.PreviewMaxSide)
	c.mu.Unlock()

	c.state.Emit(app.EventMaskChanged, nil)
	c.state.Emit(app.EventSceneChanged, nil)
	c.emitPreview()
}

func (c *Controller) runMaskedRemoval(ctx context.Context, source placement.Source, mask *image.Buffer) {
	product := c.state.Product(source)
	fullMask := image.ScaleMask(mask, product.Width, product.Height)

	result, err := c.gen.RemoveBackgroundWithMask(ctx, product, fullMask)

	c.mu.Lock()
	c.setBusyLocked(false)
	if err != nil {
		c.mu.Unlock()
		log.Printf("Masked background removal failed: %v", err)
		c.state.Emit(app.EventError, fmt.Errorf("background removal failed: %w", err))
		return
	}
	c.exitMaskLocked()
	c.restoreDisplayLocked()
	c.mu.Unlock()

	c.state.SetProduct(source, result, c.state.ProductLabel(source))
	c.state.Emit(app.EventMaskChanged, nil)
	c.emitPreview()
}

// --- Preview ---------------------------------------------------------------

// Preview renders the buffer the canvas should display: the display base
// with the current sliders applied, plus the placement ghost or the
// in-progress mask strokes.
func (c *Controller) Preview() *image.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewLocked()
}

func (c *Controller) previewLocked() *image.Buffer {
	if c.displayBase == nil {
		return nil
	}

	if c.maskMode {
		return image.OverlayStrokes(c.displayBase, c.strokes)
	}

	out, err := image.Apply(c.displayBase, c.state.Edits())
	if err != nil {
		return c.displayBase.Clone()
	}

	if prop := c.placements.Active(); prop != nil {
		if product := c.state.Product(prop.Source); product != nil {
			scene := c.state.CurrentScene()
			ratio := 1.0
			if scene != nil && scene.Width > 0 {
				ratio = float64(c.displayBase.Width) / float64(scene.Width)
			}
			out = image.ComposeProposal(out, product, prop.Position, prop.Scale*ratio, ghostOpacity)
		}
	}
	return out
}

func (c *Controller) emitPreview() {
	c.state.Emit(app.EventPreviewUpdated, c.Preview())
}

// --- internal helpers ------------------------------------------------------

// displayPointLocked projects a container position onto display buffer
// pixel coordinates.
func (c *Controller) displayPointLocked(pos geometry.Point2D) (geometry.Point2D, bool) {
	if c.displayBase == nil || c.strokes == nil {
		return geometry.Point2D{}, false
	}
	pct, ok := geometry.ProjectPoint(pos, c.container, c.displaySizeLocked())
	if !ok {
		return geometry.Point2D{}, false
	}
	return geometry.Point2D{
		X: pct.X / 100 * float64(c.displayBase.Width),
		Y: pct.Y / 100 * float64(c.displayBase.Height),
	}, true
}

func (c *Controller) displaySizeLocked() geometry.Size {
	if c.displayBase == nil {
		return geometry.Size{}
	}
	return geometry.NewSize(float64(c.displayBase.Width), float64(c.displayBase.Height))
}

// exitMaskLocked leaves mask mode and drops the stroke layer.
func (c *Controller) exitMaskLocked() {
	c.maskMode = false
	c.strokes = nil
	c.lastPaint = make(map[int]geometry.Point2D)
}

// restoreDisplayLocked points the display back at the scene after a product
// mask session.
func (c *Controller) restoreDisplayLocked() {
	if entry := c.state.History.Current(); entry != nil {
		c.displayBase = image.Downscale(entry.Image, image.PreviewMaxSide)
	} else {
		c.displayBase = nil
	}
}

func (c *Controller) setBusyLocked(busy bool) {
	c.busy = busy
	go c.state.Emit(app.EventBusyChanged, busy)
}

func maskSource(target MaskTarget) placement.Source {
	if target == MaskTargetProductB {
		return placement.SourceProductB
	}
	return placement.SourceProductA
}

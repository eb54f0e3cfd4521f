// Package layout turns a gesture into a bounded 2D preview scene.
//
// [Build] folds over the steps of a [gesture.Gesture], carrying the current
// gaze position (the cursor, starting at the frame centre) and the last
// fixation point. Each step yields one [Shape] whose anchor is where the
// step's numbered label and connecting lines attach:
//
//   - Fixation: a circle around the cursor; the cursor becomes the fixation
//     point.
//   - LookInDirection: the cursor moves by a percentage of the frame and the
//     shape is the oversized region on the side being looked toward.
//   - LookAtArea: the cursor is pulled into the area, one label radius in
//     from its edges.
//   - ReturnToFixation: the cursor jumps back to the fixation point; the
//     label sits below it, on the side the gaze came from.
//
// The canvas bounds start at 1.4 times the frame with a 0.2 margin on each
// side and grow with [geom.Rect.Union] so that every label disc fits.
// Shapes themselves may extend past the bounds: renderers clip to the canvas,
// and directional regions are expected to bleed off it.
//
// Shapes and bounds are kept in frame coordinates. Connectors and labels are
// already shifted onto the canvas, whose origin is the top-left corner of the
// bounds; [Result.Placed] shifts the shapes the same way.
//
// Build never mutates its input. The fixation point it derives is returned
// in [Result.Fixation] for callers that want to record it on the gesture.
package layout

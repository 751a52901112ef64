/*
go-struck is a single object tracker based on structured output prediction
with kernels.  Each frame the tracker scores candidate boxes around the
previous position with an online structured SVM and moves to the best one,
then trains the SVM on the new position while holding a fixed budget of
support vectors.

The tracker itself lives in the tracker subpackage and works on plain
image.Image frames.  This package runs trackers over image sequences on disk
and evaluates the results against ground truth, using a pool of trackers to
process several sequences concurrently.

See example code and usage in the examples subdirectory.
*/
package struck

/*
go-lumbarcheck is a clinical movement assessment library for physical
therapists.  It scores lumbar motor-control quality from skeletal pose
landmarks produced by a BlazePose style estimator run over webcam or
video file frames.

The library takes the 33 point landmark sets the pose model emits for
each frame, derives joint angles and postural stability metrics from
them, and grades the patient's performance of a standardized movement
test (standing hip flexion, waiter's bow, sitting knee extension,
pelvic tilt, deep squat) against weighted clinical scoring rubrics.

See example code and usage in the example subdirectory.
*/
package lumbarcheck

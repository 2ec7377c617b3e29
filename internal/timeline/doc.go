// Package timeline equalizes clip durations before composition.
//
// ReadCap bounds how many frames are decoded from a clip. Loop repeats the
// decoded sequence a fixed number of times by count, and Pad holds the last
// frame until every clip reaches the common target length.
package timeline

package model

// Instance "T1": three courses sharing one curriculum, one room, 5 days of 6
// periods. The unavailability constraint names a course that does not exist.
const t1Document = `Name: T1
Courses: 3
Rooms: 1
Days: 5
Periods_per_day: 6
Curricula: 1
Constraints: 1

COURSES:
c1 t1 3 2 50
c2 t2 2 1 10
c3 t3 1 1 200

ROOMS:
r1 30

CURRICULA:
k1 3 c1 c2 c3

UNAVAILABILITY_CONSTRAINTS:
c9 0 0

ROOM_CONSTRAINTS:
c2 r1

END.
`

// Five courses: a triangle {a, b, c} bridged to the path c - d - e, plus a
// dangling curriculum member and a repeated course.
const bridgeDocument = `Name: Bridge
Days: 4
Periods_per_day: 5

COURSES:
a ta 2 2 30
b tb 4 2 120
c tc 3 3 80
d td 1 1 1500
e te 2 1 40

ROOMS:
r1 50
r2 100

CURRICULA:
q1 3 a b c
q2 2 c d
q3 3 d e ghost
q4 3 a a b

UNAVAILABILITY_CONSTRAINTS:
c 0 0
c 0 1
c 1 2
e 3 4

ROOM_CONSTRAINTS:
b r1
b r2
ghost r1
`

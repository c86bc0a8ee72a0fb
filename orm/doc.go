/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* It has a primary key chosen by the caller.
* It may possess one or more secondary indexes (1:N).

Create and Delete check the existence of the entity in the same store they
modify, so a Create never overwrites and a Delete never removes an entity
twice. Combined with a cache wrap per transaction this gives a
compare-and-swap on the existence of an entity.
*/
package orm

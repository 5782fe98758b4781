package sqlinline

const QInsertCategory = `--sql 567aee38-c692-4325-a7f8-146b180a5a22
insert into categories (id, name, slug, icon, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, now())
returning id;
`

const QSelectCategoryBySlug = `--sql 09d50f36-2225-444b-bb70-9cee07d91315
select id from categories where slug = $1::text limit 1;
`

const QListCategories = `--sql 1e187845-e085-4e80-a805-30bad93676bf
select id, name, slug, icon
from categories
order by name asc;
`

const QUpdateCategory = `--sql ba3f1fdb-52f4-4c12-b328-6aa57389081c
update categories
set name = coalesce(nullif($2::text, ''), name),
    icon = coalesce(nullif($3::text, ''), icon)
where id = $1::uuid
returning id, name, slug, icon;
`

const QDeleteCategory = `--sql b95c8069-5da1-40dc-abd5-1e3892db9f8e
delete from categories
where id = $1::uuid
returning id;
`

package sqlinline

const businessColumns = `b.id, b.business_name, b.description, b.logo, b.website, b.location,
       b.status, b.created_at,
       u.id, u.name`

const QInsertBusiness = `--sql bd2b6a52-a7e9-4df1-b30f-f1dfe1d8b502
insert into businesses (id, business_name, description, logo, website, location, owner_id, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, nullif($4::text, ''), $5::text, $6::uuid, now(), now())
returning id;
`

const QSelectBusinessByID = `--sql a6024ac8-713e-4b6b-a3c9-e8314296651a
select ` + businessColumns + `
from businesses b
join users u on u.id = b.owner_id
where b.id = $1::uuid
limit 1;
`

const QListBusinesses = `--sql fa8ac66c-c49a-4837-9fc1-bc4016a9ecdc
select ` + businessColumns + `
from businesses b
join users u on u.id = b.owner_id
order by b.created_at desc;
`

const QListBusinessesByStatus = `--sql 3076982b-e2ce-43e5-a675-793b5fa1993d
select ` + businessColumns + `
from businesses b
join users u on u.id = b.owner_id
where b.status = $1::text
order by b.created_at desc;
`

const QUpdateBusinessStatus = `--sql 98e7aaa6-95c1-4d6b-8123-76a49851b765
update businesses
set status = $2::text,
    updated_at = now()
where id = $1::uuid
returning id;
`
